package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"description",
			"location",
			"date",
			"capacity",
			"reserved_places",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 5000,
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 300,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"reserved_places": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"draft",
					"published",
					"canceled",
				},
			},

			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
	// reserved_places never exceeds capacity, whatever path wrote it.
	"$expr": bson.M{"$lte": bson.A{"$reserved_places", "$capacity"}},
}
