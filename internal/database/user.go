package repository

import (
	"ProgJulia/entity"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// phoneVariants matches numbers stored with or without the leading plus.
func phoneVariants(phone string) []string {
	digits := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	return []string{digits, "+" + digits}
}

func (m *MongoDB) findUsers(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return users, nil
}

func (m *MongoDB) findUser(ctx context.Context, filter interface{}) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	var user entity.User
	err = collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}

func (m *MongoDB) FindUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return m.findUser(ctx, bson.D{{"id", id}})
}

func (m *MongoDB) FindUserByUniqueID(ctx context.Context, uniqueID string) (*entity.User, error) {
	return m.findUser(ctx, bson.D{{"unique_id", uniqueID}})
}

func (m *MongoDB) FindUserByChatID(ctx context.Context, chatID string) (*entity.User, error) {
	return m.findUser(ctx, bson.D{{"telegram_chat_id", chatID}})
}

func (m *MongoDB) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return m.findUser(ctx, bson.D{{"$or", []bson.D{
		{{"email", email}},
		{{"emails", email}},
	}}})
}

func (m *MongoDB) FindUsersByPhone(ctx context.Context, phone string) ([]entity.User, error) {
	variants := phoneVariants(phone)
	filter := bson.D{{"$or", []bson.D{
		{{"phone", bson.D{{"$in", variants}}}},
		{{"phones", bson.D{{"$in", variants}}}},
	}}}
	return m.findUsers(ctx, filter, options.Find().SetSort(bson.D{{"id", 1}}))
}

// FindUsersLike matches users whose phone or email contains the given fragments.
// Empty fragments are ignored.
func (m *MongoDB) FindUsersLike(ctx context.Context, phone, email string) ([]entity.User, error) {
	var or []bson.D
	if phone = strings.TrimPrefix(strings.TrimSpace(phone), "+"); phone != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(phone)}
		or = append(or, bson.D{{"phone", re}}, bson.D{{"phones", re}})
	}
	if email = strings.TrimSpace(email); email != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(email), Options: "i"}
		or = append(or, bson.D{{"email", re}}, bson.D{{"emails", re}})
	}
	if len(or) == 0 {
		return nil, nil
	}
	return m.findUsers(ctx, bson.D{{"$or", or}}, options.Find().SetSort(bson.D{{"id", 1}}))
}

func (m *MongoDB) FindAllUsers(ctx context.Context) ([]entity.User, error) {
	return m.findUsers(ctx, bson.D{}, options.Find().SetSort(bson.D{{"id", 1}}))
}

// SaveUser inserts a new user (assigning the next id) or replaces the stored one.
func (m *MongoDB) SaveUser(ctx context.Context, user *entity.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	if user.ID == 0 {
		id, err := m.nextID(ctx, connection, usersCollection)
		if err != nil {
			return err
		}
		user.ID = id
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	collection := connection.Database(m.database).Collection(usersCollection)
	filter := bson.D{{"id", user.ID}}
	update := bson.M{"$set": user}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) updateUser(ctx context.Context, id int64, update bson.D) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)
	_, err = collection.UpdateOne(ctx, bson.D{{"id", id}}, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	return nil
}

func (m *MongoDB) SetUserBanned(ctx context.Context, id int64, banned bool) error {
	return m.updateUser(ctx, id, bson.D{{"$set", bson.D{{"banned", banned}}}})
}

func (m *MongoDB) AddUserToGroup(ctx context.Context, id int64, group string) error {
	return m.updateUser(ctx, id, bson.D{{"$addToSet", bson.D{{"groups", group}}}})
}

func (m *MongoDB) RemoveUserFromGroup(ctx context.Context, id int64, group string) error {
	return m.updateUser(ctx, id, bson.D{{"$pull", bson.D{{"groups", group}}}})
}

// UpdateUserChatID links a Telegram chat to the user with the given unique id.
func (m *MongoDB) UpdateUserChatID(ctx context.Context, uniqueID, chatID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)
	res, err := collection.UpdateOne(ctx,
		bson.D{{"unique_id", uniqueID}},
		bson.D{{"$set", bson.D{{"telegram_chat_id", chatID}}}},
	)
	if err != nil {
		return false, fmt.Errorf("mongodb update error: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoDB) CountUsersByGroup(ctx context.Context, group string) (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)
	count, err := collection.CountDocuments(ctx, bson.D{{"groups", group}})
	if err != nil {
		return 0, fmt.Errorf("mongodb count error: %w", err)
	}
	return count, nil
}

func (m *MongoDB) FindUsersByGroup(ctx context.Context, group string, page, size int) ([]entity.User, error) {
	opts := options.Find().
		SetSort(bson.D{{"id", 1}}).
		SetSkip(int64(page * size)).
		SetLimit(int64(size))
	return m.findUsers(ctx, bson.D{{"groups", group}}, opts)
}
