package repository

import (
	"ProgJulia/entity"
	"context"
	"fmt"
)

func (m *MongoDB) SaveCertificateTasks(ctx context.Context, tasks []entity.CertificateTask) error {
	if len(tasks) == 0 {
		return nil
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	docs := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		docs = append(docs, t)
	}

	collection := connection.Database(m.database).Collection(certificatesCollection)
	if _, err = collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}
