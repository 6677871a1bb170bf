package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

type GroupClient struct {
	c *client
}

func NewGroupClient(baseURL string, opts Options) ports.GroupDirectory {
	return &GroupClient{c: newClient(baseURL, opts)}
}

func (g *GroupClient) GroupExists(ctx context.Context, groupID string) (bool, error) {
	var resp existsResponse
	query := url.Values{"groupId": {groupID}}
	if err := g.c.do(ctx, http.MethodGet, "/api/group/id", query, nil, &resp); err != nil {
		return false, err
	}
	return resp.value()
}

func (g *GroupClient) GetGroupsByIDs(ctx context.Context, ids []string) ([]domain.GroupRecord, error) {
	var groups []domain.GroupRecord
	if err := g.c.do(ctx, http.MethodPost, "/api/group/group-name-list", nil, ids, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (g *GroupClient) UserHasDeletePermission(ctx context.Context, userID uuid.UUID, groupID string) (bool, error) {
	var permitted *bool
	query := url.Values{"userId": {userID.String()}, "groupId": {groupID}}
	if err := g.c.do(ctx, http.MethodGet, "/api/group/user-role/permission/delete", query, nil, &permitted); err != nil {
		return false, err
	}
	if permitted == nil {
		return false, fmt.Errorf("%w: permission response is null", domain.ErrRemoteCallFailed)
	}
	return *permitted, nil
}

type userGroupsResponse struct {
	UserGroups []string `json:"user_groups"`
}

func (g *GroupClient) GetGroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var resp userGroupsResponse
	query := url.Values{"userId": {userID.String()}}
	if err := g.c.do(ctx, http.MethodGet, "/api/group/all-user-groups", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.UserGroups, nil
}
