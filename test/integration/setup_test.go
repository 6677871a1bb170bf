package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/pollmanagement/internal/adapters/directory"
	handler "github.com/vncsmyrnk/pollmanagement/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollmanagement/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollmanagement/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// directories is an in-memory stand-in for the user, group and vote
// services, served over HTTP with their wire formats.
type directories struct {
	mu          sync.Mutex
	users       map[uuid.UUID]string
	groups      map[string]string
	deleters    map[uuid.UUID]string // user -> group they may delete polls in
	userGroups  map[uuid.UUID][]string
	deletedVote []int64
}

func newDirectories() *directories {
	return &directories{
		users:      map[uuid.UUID]string{},
		groups:     map[string]string{},
		deleters:   map[uuid.UUID]string{},
		userGroups: map[uuid.UUID][]string{},
	}
}

func (d *directories) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/user/id", func(w http.ResponseWriter, r *http.Request) {
		id, _ := uuid.Parse(r.URL.Query().Get("userId"))
		d.mu.Lock()
		_, ok := d.users[id]
		d.mu.Unlock()
		writeBody(w, map[string]bool{"exists": ok})
	})
	mux.HandleFunc("POST /api/user/username-list", func(w http.ResponseWriter, r *http.Request) {
		var ids []uuid.UUID
		json.NewDecoder(r.Body).Decode(&ids)
		out := []map[string]string{}
		d.mu.Lock()
		for _, id := range ids {
			if name, ok := d.users[id]; ok {
				out = append(out, map[string]string{"user_id": id.String(), "username": name})
			}
		}
		d.mu.Unlock()
		writeBody(w, out)
	})

	mux.HandleFunc("GET /api/group/id", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		_, ok := d.groups[r.URL.Query().Get("groupId")]
		d.mu.Unlock()
		writeBody(w, map[string]bool{"exists": ok})
	})
	mux.HandleFunc("POST /api/group/group-name-list", func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		json.NewDecoder(r.Body).Decode(&ids)
		out := []map[string]string{}
		d.mu.Lock()
		for _, id := range ids {
			if name, ok := d.groups[id]; ok {
				out = append(out, map[string]string{"group_id": id, "group_name": name})
			}
		}
		d.mu.Unlock()
		writeBody(w, out)
	})
	mux.HandleFunc("GET /api/group/user-role/permission/delete", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		id, _ := uuid.Parse(q.Get("userId"))
		d.mu.Lock()
		allowed := d.deleters[id] == q.Get("groupId")
		d.mu.Unlock()
		writeBody(w, allowed)
	})
	mux.HandleFunc("GET /api/group/all-user-groups", func(w http.ResponseWriter, r *http.Request) {
		id, _ := uuid.Parse(r.URL.Query().Get("userId"))
		d.mu.Lock()
		groups := append([]string{}, d.userGroups[id]...)
		d.mu.Unlock()
		writeBody(w, map[string][]string{"user_groups": groups})
	})

	mux.HandleFunc("POST /api/vote/user-choices", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, map[string][]int64{"voting_item_ids": {}})
	})
	mux.HandleFunc("DELETE /api/vote/delete-multiple", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			VotingItemIDs []int64 `json:"voting_item_ids"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		d.mu.Lock()
		d.deletedVote = append(d.deletedVote, req.VotingItemIDs...)
		d.mu.Unlock()
		writeBody(w, map[string]int{"deleted_count": len(req.VotingItemIDs)})
	})

	return mux
}

func writeBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type TestApp struct {
	DB     *sql.DB
	Server *httptest.Server
	Client *http.Client
	Dirs   *directories
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, db))

	dirs := newDirectories()
	dirServer := httptest.NewServer(dirs.handler())

	logger, _ := logtest.NewNullLogger()
	opts := directory.Options{Timeout: 2 * time.Second, MaxRetries: 1, RetryWait: 10 * time.Millisecond, Log: logger}
	users := directory.NewUserClient(dirServer.URL, opts)
	groups := directory.NewGroupClient(dirServer.URL, opts)
	votes := directory.NewVoteClient(dirServer.URL, opts)

	pollRepo := postgres.NewPollRepository(db)
	pollSvc := services.NewPollService(services.PollServiceDeps{
		Repo:       pollRepo,
		Validator:  services.NewValidator(pollRepo, users, groups, logger),
		Aggregator: services.NewAggregator(users, groups, votes, time.Second, logger),
		Groups:     groups,
		Votes:      votes,
		Log:        logger,
	})
	itemSvc := services.NewVotingItemService(postgres.NewVotingItemRepository(db), time.Now, logger)

	router := handler.NewHandler(
		handler.NewPollHandler(pollSvc, logger),
		handler.NewVotingItemHandler(itemSvc, logger),
		handler.NewHealthHandler(db, logger),
		handler.RouterConfig{Log: logger},
	)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		dirServer.Close()
		db.Close()
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestApp{DB: db, Server: server, Client: server.Client(), Dirs: dirs}
}

func (d *directories) addUser(id uuid.UUID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[id] = name
}

func (d *directories) addGroup(id, name string, members ...uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups[id] = name
	for _, m := range members {
		d.userGroups[m] = append(d.userGroups[m], id)
	}
}

func (d *directories) grantDelete(user uuid.UUID, group string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleters[user] = group
}

func (d *directories) deletedVotes() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int64(nil), d.deletedVote...)
}
