package states

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	criteriaUserID = "user_id"
	criteriaGroup  = "group"
	criteriaPhone  = "user_phone"
	criteriaEmail  = "user_email"
)

// criteriaError carries the reply for a malformed certificate request.
type criteriaError string

func (e criteriaError) Error() string {
	return string(e)
}

const (
	errNoColon    criteriaError = "At least one \":\" is required"
	errBadRequest criteriaError = "Wrong input, try again, incorrect request!"
)

// parseCriteria reads "user_id:1,2;group:A;user_phone:..;user_email:..".
// Ids that are not numbers are returned separately and left out of the criteria.
func parseCriteria(input string) (entity.CertificateCriteria, []string, error) {
	var (
		criteria entity.CertificateCriteria
		badIDs   []string
	)
	for _, set := range strings.Split(input, ";") {
		if strings.TrimSpace(set) == "" {
			continue
		}
		if !strings.Contains(set, ":") {
			return criteria, nil, errNoColon
		}
		general := strings.Split(set, ":")
		if len(general) != 2 {
			return criteria, nil, errBadRequest
		}
		key := strings.TrimSpace(general[0])
		values := splitList(general[1], ",")
		if len(values) == 0 {
			return criteria, nil, errBadRequest
		}

		switch key {
		case criteriaUserID:
			for _, v := range values {
				id, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					badIDs = append(badIDs, v)
					continue
				}
				criteria.UserIDs = append(criteria.UserIDs, id)
			}
		case criteriaGroup:
			criteria.Groups = append(criteria.Groups, values...)
		case criteriaPhone:
			criteria.Phones = append(criteria.Phones, values...)
		case criteriaEmail:
			criteria.Emails = append(criteria.Emails, values...)
		default:
			return criteria, nil, errBadRequest
		}
	}
	return criteria, badIDs, nil
}

// Certificate queues certificate tasks for the users a request selects.
type Certificate struct {
	admin.BaseState
	key string
}

func NewCertificate(key string) *Certificate {
	return &Certificate{BaseState: admin.NewBaseState(false), key: key}
}

func (s *Certificate) Enter(c *admin.Context) error {
	criteria, badIDs, err := parseCriteria(c.Attributes().MustString(s.key))
	if err != nil {
		c.Send(err.Error())
		return nil
	}
	if len(badIDs) > 0 {
		c.Log().With(slog.Any("ids", badIDs)).Warn("invalid user ids in certificate request")
	}

	var users map[string][]entity.User
	if !criteria.Empty() {
		users, err = c.Certificates().UsersByCriteria(c.Context(), criteria)
		if err != nil {
			return err
		}
	}
	if len(users) == 0 {
		c.Send("No data matching your criteria. Please enter the correct data.")
		return nil
	}

	n, err := c.Certificates().EnqueueTasks(c.Context(), users)
	if err != nil {
		return err
	}
	c.Send(fmt.Sprintf("Create certificate tasks: %d", n))
	return nil
}
