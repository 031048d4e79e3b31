package repository

import (
	"context"
	"errors"
	"fmt"

	rostererrors "studiodesk/internal/roster/errors"
	"studiodesk/pkg/config"
	mongodb "studiodesk/pkg/db/mongo"
	"studiodesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfessionalRepository interface {
	FindByID(ctx context.Context, id string) (*model.Professional, error)
	Upsert(ctx context.Context, professional *model.Professional) error
}

type mongoProfessionalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfessionalRepository(cfg *config.Config) ProfessionalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfessionalRepository{
		cfg:        cfg,
		collection: db.Collection(mongodb.CollectionProfessionals),
	}
}

func (r *mongoProfessionalRepository) FindByID(ctx context.Context, id string) (*model.Professional, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var professional model.Professional
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&professional)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rostererrors.ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("failed to find professional: %w", err)
	}
	return &professional, nil
}

func (r *mongoProfessionalRepository) Upsert(ctx context.Context, professional *model.Professional) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": professional.ID}, professional, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert professional: %w", err)
	}
	return nil
}
