package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"kind",
			"member_id",
			"resource_id",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"hidden",
			"tickets_debited",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"kind": bson.M{
				"enum": []string{"lesson", "mental", "training_room", "rental_room"},
			},

			"member_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"duration_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  10,
				"maximum":  480,
			},

			"status": bson.M{
				"enum": []string{"scheduled", "attended", "absent"},
			},

			"hidden": bson.M{
				"bsonType": "bool",
			},

			"ticket": bson.M{
				"enum": []string{"lesson30", "lesson50", "mental", "rental"},
			},

			"tickets_debited": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_by": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ReservationLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"owner", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"owner": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
