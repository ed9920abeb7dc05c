package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type googleSecret struct {
	Kind      string    `bson:"kind"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SaveGoogleSecret stores the OAuth client file ("client") or token ("token").
func (m *MongoDB) SaveGoogleSecret(ctx context.Context, kind string, data []byte) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(googleCollection)
	doc := googleSecret{Kind: kind, Data: data, UpdatedAt: time.Now()}

	_, err = collection.UpdateOne(ctx, bson.D{{"kind", kind}}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

// LoadGoogleSecret returns nil, nil when nothing is stored.
func (m *MongoDB) LoadGoogleSecret(ctx context.Context, kind string) ([]byte, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(googleCollection)

	var doc googleSecret
	err = collection.FindOne(ctx, bson.D{{"kind", kind}}).Decode(&doc)
	if err != nil {
		return nil, m.findError(err)
	}
	return doc.Data, nil
}

func (m *MongoDB) DeleteGoogleSecret(ctx context.Context, kind string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(googleCollection)
	if _, err = collection.DeleteOne(ctx, bson.D{{"kind", kind}}); err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	return nil
}
