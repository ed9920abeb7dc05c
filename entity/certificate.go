package entity

import "time"

type CertificateStatus string

const CertificatePending CertificateStatus = "PENDING"

// CertificateTask is picked up by the certificate renderer outside this service.
type CertificateTask struct {
	ID        string            `json:"id" bson:"id"`
	UserID    int64             `json:"user_id" bson:"user_id"`
	UserName  string            `json:"user_name" bson:"user_name"`
	GroupName string            `json:"group_name" bson:"group_name"`
	Status    CertificateStatus `json:"status" bson:"status"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

type CertificateCriteria struct {
	UserIDs []int64
	Groups  []string
	Phones  []string
	Emails  []string
}

func (c CertificateCriteria) Empty() bool {
	return len(c.UserIDs) == 0 && len(c.Groups) == 0 && len(c.Phones) == 0 && len(c.Emails) == 0
}
