package state

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&RedisConfig{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestLoadMissingDocument() {
	_, err := s.repo.Load(context.Background())
	s.Require().ErrorIs(err, ErrDocumentNotFound)
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoad() {
	doc := models.NewDocument()
	guild := doc.Guild("42")
	guild.Participants = append(guild.Participants, &models.Participant{
		ID:   1,
		Name: "A",
		HO:   "HO1",
	})
	guild.Game.Day = 2
	guild.Game.Phase = models.PhaseNight
	guild.Votes["HO1"] = "HO2"
	guild.VotingOpen = true

	err := s.repo.Save(context.Background(), &SaveDocumentInput{
		Document: doc,
	})
	s.Require().NoError(err)

	loaded, err := s.repo.Load(context.Background())
	s.Require().NoError(err)
	s.Require().NotNil(loaded)

	g := loaded.Guilds["42"]
	s.Require().NotNil(g)
	s.Len(g.Participants, 1)
	s.Equal(int64(1), g.Participants[0].ID)
	s.Equal("HO1", g.Participants[0].HO)
	s.Equal(2, g.Game.Day)
	s.Equal(models.PhaseNight, g.Game.Phase)
	s.Equal("HO2", g.Votes["HO1"])
	s.True(g.VotingOpen)
}

func (s *RedisRepositoryTestSuite) TestSaveOverwrites() {
	doc := models.NewDocument()
	doc.Guild("42").Game.Day = 1
	s.Require().NoError(s.repo.Save(context.Background(), &SaveDocumentInput{Document: doc}))

	doc.Guild("42").Game.Day = 3
	s.Require().NoError(s.repo.Save(context.Background(), &SaveDocumentInput{Document: doc}))

	loaded, err := s.repo.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(3, loaded.Guilds["42"].Game.Day)
}

func (s *RedisRepositoryTestSuite) TestSaveNilInput() {
	s.Error(s.repo.Save(context.Background(), nil))
	s.Error(s.repo.Save(context.Background(), &SaveDocumentInput{}))
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&RedisConfig{})
	s.Error(err)
}
