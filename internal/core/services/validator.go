package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/core/domain"
	"github.com/vncsmyrnk/pollmanagement/internal/core/ports"
)

// validator gates poll operations before any state change. Each check
// short-circuits on its first failure.
type validator struct {
	polls  ports.PollRepository
	users  ports.UserDirectory
	groups ports.GroupDirectory
	log    logrus.FieldLogger
}

func NewValidator(polls ports.PollRepository, users ports.UserDirectory, groups ports.GroupDirectory, log logrus.FieldLogger) ports.PollValidator {
	return &validator{
		polls:  polls,
		users:  users,
		groups: groups,
		log:    log,
	}
}

func (v *validator) ValidateNewPoll(ctx context.Context, input ports.CreatePollInput, at time.Time) error {
	if err := v.validateAllowedAnswers(input); err != nil {
		return err
	}
	if err := v.validateDeadline(input, at); err != nil {
		return err
	}
	if err := v.validateGroupExists(ctx, input.GroupID); err != nil {
		return err
	}
	if err := v.validateUserExists(ctx, input.CreatorID); err != nil {
		return err
	}
	if len(input.VotingItems) == 0 {
		v.log.WithField("creator_id", input.CreatorID).Info("poll rejected: no voting items")
		return domain.Errorf(domain.ErrInvalidArgument, "a list of voting items cannot be empty")
	}
	return ValidateTitle(input.Title)
}

func (v *validator) ValidateGetPollByID(ctx context.Context, pollID uuid.UUID) error {
	return v.validatePollExists(ctx, pollID)
}

func (v *validator) ValidateGetPollsByGroupID(ctx context.Context, groupID string) error {
	return v.validateGroupExists(ctx, groupID)
}

func (v *validator) ValidateGetPollsByMultipleGroupIDs(ctx context.Context, groupIDs []string) error {
	if len(groupIDs) == 0 {
		return domain.Errorf(domain.ErrInvalidArgument, "at least one group id is required")
	}
	for _, groupID := range groupIDs {
		if err := v.validateGroupExists(ctx, groupID); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDeletePoll authorizes userID to mutate the poll: the poll must
// exist, and the user must be its creator or hold delete permission in the
// poll's group. The loaded poll is returned on success.
func (v *validator) ValidateDeletePoll(ctx context.Context, userID uuid.UUID, groupID string, pollID uuid.UUID) (*domain.Poll, error) {
	poll, err := v.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if groupID != "" && groupID != poll.GroupID {
		return nil, domain.Errorf(domain.ErrInvalidArgument, "poll %s does not belong to group %s", pollID, groupID)
	}

	if poll.CreatorID == userID {
		return poll, nil
	}

	permitted, err := v.groups.UserHasDeletePermission(ctx, userID, poll.GroupID)
	if err != nil {
		return nil, fmt.Errorf("check delete permission: %w", err)
	}
	if !permitted {
		v.log.WithFields(logrus.Fields{"user_id": userID, "poll_id": pollID}).Info("user has no permission on poll")
		return nil, domain.Errorf(domain.ErrAccessDenied, "user %s has no permissions to modify poll %s", userID, pollID)
	}
	return poll, nil
}

func (v *validator) validateAllowedAnswers(input ports.CreatePollInput) error {
	if input.NumAnswersAllowed > len(input.VotingItems) {
		v.log.WithField("creator_id", input.CreatorID).Info("poll rejected: too many allowed answers")
		return domain.Errorf(domain.ErrInvalidArgument, "number of allowed answers is greater than number of available answers")
	}
	if input.NumAnswersAllowed < 1 {
		return domain.Errorf(domain.ErrInvalidArgument, "number of allowed answers must be at least 1")
	}
	return nil
}

func (v *validator) validateDeadline(input ports.CreatePollInput, at time.Time) error {
	deadline, err := ParseDeadline(input.Deadline)
	if err != nil {
		return err
	}
	if deadline.Before(at) {
		v.log.WithField("creator_id", input.CreatorID).Info("poll rejected: deadline in the past")
		return domain.Errorf(domain.ErrInvalidArgument, "a deadline cannot be earlier than the time a poll was created")
	}
	return nil
}

func (v *validator) validateGroupExists(ctx context.Context, groupID string) error {
	exists, err := v.groups.GroupExists(ctx, groupID)
	if err != nil {
		return fmt.Errorf("check group %s: %w", groupID, err)
	}
	if !exists {
		v.log.WithField("group_id", groupID).Info("group does not exist")
		return domain.Errorf(domain.ErrNotFound, "group %s does not exist", groupID)
	}
	return nil
}

func (v *validator) validateUserExists(ctx context.Context, userID uuid.UUID) error {
	exists, err := v.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		v.log.WithField("user_id", userID).Info("user does not exist")
		return domain.Errorf(domain.ErrNotFound, "user %s does not exist", userID)
	}
	return nil
}

func (v *validator) validatePollExists(ctx context.Context, pollID uuid.UUID) error {
	exists, err := v.polls.Exists(ctx, pollID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.Errorf(domain.ErrNotFound, "poll with id %s does not exist", pollID)
	}
	return nil
}

// ParseDeadline parses an RFC 3339 timestamp, the only accepted deadline format.
func ParseDeadline(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, domain.Errorf(domain.ErrInvalidArgument, "deadline %q is not an RFC 3339 timestamp", s)
	}
	return t, nil
}

// ValidateTitle rejects a blank poll title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.Errorf(domain.ErrInvalidArgument, "title is required")
	}
	return nil
}
