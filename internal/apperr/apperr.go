// Package apperr defines the closed set of failures the ledger core reports.
//
// Every failure is a concrete type carrying the ids involved. Each type also
// matches one sentinel through errors.Is, so callers that only care about the
// kind can write errors.Is(err, apperr.ErrGroupNotFound) while callers that
// need the details use errors.As.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for the calling boundary.
type Kind string

const (
	KindUnknown       Kind = "UNKNOWN"
	KindUserNotFound  Kind = "USER_NOT_FOUND"
	KindGroupNotFound Kind = "GROUP_NOT_FOUND"
	KindDuplicate     Kind = "DUPLICATE_RELATION"
	KindNotFriends    Kind = "NOT_FRIENDS"
	KindNotAuthorized Kind = "NOT_AUTHORIZED"
	KindInvalidInput  Kind = "INVALID_INPUT"
	KindPersistence   Kind = "PERSISTENCE"
)

// Sentinels matched by the concrete error types.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrDuplicateRelation = errors.New("relation already exists")
	ErrNotFriends        = errors.New("participants are not friends of the creator")
	ErrNotAuthorized     = errors.New("not authorized to perform this action")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPersistence       = errors.New("persistence failure")
)

// Relation names used by DuplicateRelationError.
const (
	RelationFriendship = "friendship"
	RelationMembership = "membership"
)

// UserNotFoundError is returned when a user lookup by id or email finds nothing.
type UserNotFoundError struct {
	UserID int64
	Email  string
}

func (e *UserNotFoundError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("user %q not found", e.Email)
	}
	return fmt.Sprintf("user %d not found", e.UserID)
}

func (e *UserNotFoundError) Is(target error) bool { return target == ErrUserNotFound }

// GroupNotFoundError is returned when a referenced group does not exist.
type GroupNotFoundError struct {
	GroupID int64
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("group %d not found", e.GroupID)
}

func (e *GroupNotFoundError) Is(target error) bool { return target == ErrGroupNotFound }

// DuplicateRelationError is returned when a friendship or membership already exists.
// For memberships UserID is the group id and OtherID the member.
type DuplicateRelationError struct {
	Relation string
	UserID   int64
	OtherID  int64
}

func (e *DuplicateRelationError) Error() string {
	switch e.Relation {
	case RelationFriendship:
		return fmt.Sprintf("user %d is already friends with user %d", e.UserID, e.OtherID)
	case RelationMembership:
		return fmt.Sprintf("user %d is already a member of group %d", e.OtherID, e.UserID)
	}
	return fmt.Sprintf("%s %d/%d already exists", e.Relation, e.UserID, e.OtherID)
}

func (e *DuplicateRelationError) Is(target error) bool { return target == ErrDuplicateRelation }

// NotFriendsError lists the participants that are not friends of the expense creator.
type NotFriendsError struct {
	CreatorID int64
	UserIDs   []int64
}

func (e *NotFriendsError) Error() string {
	ids := make([]string, len(e.UserIDs))
	for i, id := range e.UserIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("users [%s] are not friends of user %d", strings.Join(ids, ", "), e.CreatorID)
}

func (e *NotFriendsError) Is(target error) bool { return target == ErrNotFriends }

// NotAuthorizedError is returned when the actor is neither creator nor member of the group.
type NotAuthorizedError struct {
	ActorID int64
	GroupID int64
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("user %d is not a member of group %d", e.ActorID, e.GroupID)
}

func (e *NotAuthorizedError) Is(target error) bool { return target == ErrNotAuthorized }

// InvalidInputError is a request that fails validation before touching the store.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it already belongs to the taxonomy.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Invalid builds an InvalidInputError.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// KindOf returns the Kind of err, or KindUnknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUserNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrGroupNotFound):
		return KindGroupNotFound
	case errors.Is(err, ErrDuplicateRelation):
		return KindDuplicate
	case errors.Is(err, ErrNotFriends):
		return KindNotFriends
	case errors.Is(err, ErrNotAuthorized):
		return KindNotAuthorized
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	}
	return KindUnknown
}
