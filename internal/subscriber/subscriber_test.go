package subscriber

import (
	"errors"
	"testing"

	"github.com/nodecg/nodecg/internal/metrics"
	metrictestutil "github.com/nodecg/nodecg/internal/metrics/testutil"
	"github.com/nodecg/nodecg/internal/models"
	"github.com/nodecg/nodecg/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SubscriberSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestSubscriberSuite(t *testing.T) {
	suite.Run(t, new(SubscriberSuite))
}

func (s *SubscriberSuite) SetupTest() {
	s.db = testutil.OpenTestDB(s.T())
	s.Require().NoError(RegisterAll(s.db, Default()))
}

func (s *SubscriberSuite) writes(table, operation string) float64 {
	return metrictestutil.CounterValue(s.T(), metrics.EntityWritesTotal, table, operation)
}

func (s *SubscriberSuite) TestAuditCountsWrites() {
	created := s.writes("roles", "create")
	updated := s.writes("roles", "update")
	deleted := s.writes("roles", "delete")

	role := &models.Role{Name: "producer"}
	s.Require().NoError(s.db.Create(role).Error)
	s.Require().NoError(s.db.Model(role).Update("name", "director").Error)
	s.Require().NoError(s.db.Delete(role).Error)

	s.Equal(created+1, s.writes("roles", "create"))
	s.Equal(updated+1, s.writes("roles", "update"))
	s.Equal(deleted+1, s.writes("roles", "delete"))
}

func (s *SubscriberSuite) TestAuditIgnoresFailedWrites() {
	s.Require().NoError(s.db.Create(&models.Role{Name: "producer"}).Error)
	before := s.writes("roles", "create")

	s.Error(s.db.Create(&models.Role{Name: "producer"}).Error)
	s.Equal(before, s.writes("roles", "create"))
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) Register(*gorm.DB) error { return errors.New("boom") }

func (s *SubscriberSuite) TestRegisterAllStopsOnError() {
	err := RegisterAll(s.db, []Subscriber{failing{}})
	s.Require().Error(err)
	s.Contains(err.Error(), "failing")
}
