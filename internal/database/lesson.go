package repository

import (
	"ProgJulia/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindLessons returns the lessons imported from one sheet, in sheet order.
func (m *MongoDB) FindLessons(ctx context.Context, spreadsheetID string, sheet int) ([]entity.Lesson, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(lessonsCollection)
	filter := bson.D{{"spreadsheet_id", spreadsheetID}, {"sheet_number", sheet}}
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.D{{"id", 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []entity.Lesson
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return lessons, nil
}

// InsertLessons assigns ids in slice order so that later reads keep the sheet order.
func (m *MongoDB) InsertLessons(ctx context.Context, lessons []entity.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	docs := make([]interface{}, 0, len(lessons))
	for i := range lessons {
		id, err := m.nextID(ctx, connection, lessonsCollection)
		if err != nil {
			return err
		}
		lessons[i].ID = id
		lessons[i].UpdatedAt = time.Now()
		docs = append(docs, lessons[i])
	}

	collection := connection.Database(m.database).Collection(lessonsCollection)
	if _, err = collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

func (m *MongoDB) UpdateLesson(ctx context.Context, lesson *entity.Lesson) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	lesson.UpdatedAt = time.Now()

	collection := connection.Database(m.database).Collection(lessonsCollection)
	_, err = collection.UpdateOne(ctx, bson.D{{"id", lesson.ID}}, bson.M{"$set": lesson})
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	return nil
}

func (m *MongoDB) DeleteLessons(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(lessonsCollection)
	_, err = collection.DeleteMany(ctx, bson.D{{"id", bson.D{{"$in", ids}}}})
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	return nil
}
