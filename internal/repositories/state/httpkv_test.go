package state

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// kvServer is a minimal single-key store standing in for the remote endpoint
type kvServer struct {
	mu    sync.Mutex
	value []byte
	auths []string
}

func (k *kvServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.auths = append(k.auths, r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			if k.value == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write(k.value)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			k.value = body
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

type HTTPKVRepositoryTestSuite struct {
	suite.Suite
	kv     *kvServer
	server *httptest.Server
	repo   Repository
}

func (s *HTTPKVRepositoryTestSuite) SetupTest() {
	s.kv = &kvServer{}
	s.server = httptest.NewServer(s.kv.handler())

	repo, err := NewHTTPKV(&HTTPKVConfig{
		Endpoint: s.server.URL + "/v1/kv/werewolf-state",
		Token:    "test-token",
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *HTTPKVRepositoryTestSuite) TearDownTest() {
	s.server.Close()
}

func TestHTTPKVRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPKVRepositoryTestSuite))
}

func (s *HTTPKVRepositoryTestSuite) TestLoadMissingDocument() {
	_, err := s.repo.Load(context.Background())
	s.Require().ErrorIs(err, ErrDocumentNotFound)
}

func (s *HTTPKVRepositoryTestSuite) TestSaveAndLoad() {
	doc := models.NewDocument()
	doc.Guild("42").Game.Day = 5

	err := s.repo.Save(context.Background(), &SaveDocumentInput{Document: doc})
	s.Require().NoError(err)

	loaded, err := s.repo.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(5, loaded.Guilds["42"].Game.Day)
}

func (s *HTTPKVRepositoryTestSuite) TestBearerTokenSent() {
	_ = s.repo.Save(context.Background(), &SaveDocumentInput{Document: models.NewDocument()})

	s.kv.mu.Lock()
	defer s.kv.mu.Unlock()
	s.Require().NotEmpty(s.kv.auths)
	s.Equal("Bearer test-token", s.kv.auths[0])
}

func (s *HTTPKVRepositoryTestSuite) TestNewHTTPKVValidation() {
	_, err := NewHTTPKV(nil)
	s.Error(err)

	_, err = NewHTTPKV(&HTTPKVConfig{})
	s.Error(err)
}
