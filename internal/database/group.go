package repository

import (
	"ProgJulia/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GroupNames(ctx context.Context) ([]string, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(groupsCollection)
	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{"name", 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []entity.Group
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names, nil
}

func (m *MongoDB) FindGroup(ctx context.Context, name string) (*entity.Group, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(groupsCollection)

	var group entity.Group
	err = collection.FindOne(ctx, bson.D{{"name", name}}).Decode(&group)
	if err != nil {
		return nil, m.findError(err)
	}
	return &group, nil
}

// CreateGroup inserts the group unless it exists and reports whether it was created.
func (m *MongoDB) CreateGroup(ctx context.Context, name string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(groupsCollection)
	group := entity.Group{Name: name, CreatedAt: time.Now()}
	update := bson.D{{"$setOnInsert", group}}

	res, err := collection.UpdateOne(ctx, bson.D{{"name", name}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("mongodb upsert error: %w", err)
	}
	return res.UpsertedCount > 0, nil
}
