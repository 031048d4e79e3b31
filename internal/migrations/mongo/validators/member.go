package validators

import "go.mongodb.org/mongo-driver/bson"

var nonNegativeCount = bson.M{
	"bsonType": []string{"int", "long"},
	"minimum":  0,
}

// MemberValidator rejects negative balances at the storage layer as well.
var MemberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"balances"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},
			"balances": bson.M{
				"bsonType": "object",
				"required": []string{"lesson30", "lesson50", "mental", "rental"},
				"properties": bson.M{
					"lesson30": nonNegativeCount,
					"lesson50": nonNegativeCount,
					"mental":   nonNegativeCount,
					"rental":   nonNegativeCount,
				},
			},
		},
	},
}

var LedgerEntryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"member_id", "ticket", "delta", "balance_after", "reason", "created_at"},
		"properties": bson.M{
			"member_id": bson.M{
				"bsonType": "string",
			},
			"ticket": bson.M{
				"enum": []string{"lesson30", "lesson50", "mental", "rental"},
			},
			"delta": bson.M{
				"bsonType": []string{"int", "long"},
			},
			"balance_after": nonNegativeCount,
			"reason": bson.M{
				"enum": []string{"booking", "cancellation_refund", "catalog_credit"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
