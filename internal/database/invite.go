package repository

import (
	"ProgJulia/entity"
	"context"
	"fmt"
)

func (m *MongoDB) SaveInvite(ctx context.Context, invite *entity.Invite) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(invitesCollection)
	_, err = collection.InsertOne(ctx, invite)
	if err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}
