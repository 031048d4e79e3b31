package validators

import "go.mongodb.org/mongo-driver/bson"

var ProfessionalValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"kind"},
		"properties": bson.M{
			"kind": bson.M{
				"enum": []string{"instructor", "mental_coach"},
			},
			"weekly_days_off": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": []string{"int", "long"},
					"minimum":  0,
					"maximum":  6,
				},
			},
			"one_time_days_off": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "string",
					"pattern":  `^\d{4}-\d{2}-\d{2}$`,
				},
			},
		},
	},
}

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"role"},
		"properties": bson.M{
			"role": bson.M{
				"enum": []string{"member", "instructor", "mental_coach", "admin"},
			},
			"password_hash": bson.M{
				"bsonType": "string",
			},
		},
	},
}
