package directory

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type UserClient struct {
	c *client
}

func NewUserClient(baseURL string, opts Options) ports.UserDirectory {
	return &UserClient{c: newClient(baseURL, opts)}
}

func (u *UserClient) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var resp existsResponse
	query := url.Values{"userId": {userID.String()}}
	if err := u.c.do(ctx, http.MethodGet, "/api/user/id", query, nil, &resp); err != nil {
		return false, err
	}
	return resp.value()
}

func (u *UserClient) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.UserRecord, error) {
	var users []domain.UserRecord
	if err := u.c.do(ctx, http.MethodPost, "/api/user/username-list", nil, ids, &users); err != nil {
		return nil, err
	}
	return users, nil
}
