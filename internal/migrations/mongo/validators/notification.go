package validators

import "go.mongodb.org/mongo-driver/bson"

// NotificationValidator allows an empty recipient_id, which marks a notice
// visible to everyone.
var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"recipient_id", "kind", "title", "message", "created_at"},
		"properties": bson.M{
			"recipient_id": bson.M{
				"bsonType": "string",
			},
			"kind": bson.M{
				"enum": []string{"reservation_created", "reservation_cancelled", "status_changed", "notice"},
			},
			"title": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
			"message": bson.M{
				"bsonType":  "string",
				"maxLength": 4000,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var NotificationReceiptValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"notification_id", "recipient_id"},
		"properties": bson.M{
			"notification_id": bson.M{
				"bsonType": "string",
			},
			"recipient_id": bson.M{
				"bsonType": "string",
			},
			"read": bson.M{
				"bsonType": "bool",
			},
			"deleted": bson.M{
				"bsonType": "bool",
			},
			"archived": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
