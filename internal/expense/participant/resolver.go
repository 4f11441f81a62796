// Package participant decides who shares an expense.
//
// A friends expense is split between the creator and the users it names, all
// of whom must be the creator's friends. A group expense is split between every
// member of the group and ignores any named users.
package participant

import (
	"context"

	"github.com/fkhayef/splitledger/internal/apperr"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/friend"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/user"
)

// Kind names the rule a resolver applies.
type Kind string

const (
	KindFriends Kind = "friends"
	KindGroup   Kind = "group"
)

// Request is what an expense creator asked for.
type Request struct {
	CreatorID int64
	GroupID   *int64
	UserIDs   []int64
}

// Resolver turns a Request into the ordered participant list. The creator is
// always first and appears exactly once.
type Resolver interface {
	Resolve(ctx context.Context, q database.Querier, req Request) ([]int64, error)
	Kind() Kind
}

// For returns the resolver for req: group rules when a group is named,
// friends rules otherwise.
func For(req Request) Resolver {
	if req.GroupID != nil {
		return GroupResolver{}
	}
	return FriendsResolver{}
}

// FriendsResolver admits the creator plus the named users that are the creator's friends.
type FriendsResolver struct{}

func (FriendsResolver) Kind() Kind { return KindFriends }

func (FriendsResolver) Resolve(ctx context.Context, q database.Querier, req Request) ([]int64, error) {
	if _, err := user.NewRepository(q).Require(ctx, req.CreatorID); err != nil {
		return nil, err
	}

	friends, err := friend.NewRepository(q).FriendIDs(ctx, req.CreatorID)
	if err != nil {
		return nil, apperr.Persistence("load friends", err)
	}

	ids := dedupe(req.CreatorID, req.UserIDs)
	var missing []int64
	for _, id := range ids[1:] {
		if !friends[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &apperr.NotFriendsError{CreatorID: req.CreatorID, UserIDs: missing}
	}
	return ids, nil
}

// GroupResolver admits every member of the group. The creator must be one of them.
type GroupResolver struct{}

func (GroupResolver) Kind() Kind { return KindGroup }

func (GroupResolver) Resolve(ctx context.Context, q database.Querier, req Request) ([]int64, error) {
	if req.GroupID == nil {
		return nil, apperr.Invalid("group_id", "is required")
	}
	if _, err := user.NewRepository(q).Require(ctx, req.CreatorID); err != nil {
		return nil, err
	}

	groups := group.NewRepository(q)
	if _, err := groups.Require(ctx, *req.GroupID); err != nil {
		return nil, err
	}

	members, err := groups.GetMembers(ctx, *req.GroupID)
	if err != nil {
		return nil, apperr.Persistence("load members", err)
	}

	memberIDs := make([]int64, len(members))
	isMember := false
	for i, m := range members {
		memberIDs[i] = m.UserID
		if m.UserID == req.CreatorID {
			isMember = true
		}
	}
	if !isMember {
		return nil, &apperr.NotAuthorizedError{ActorID: req.CreatorID, GroupID: *req.GroupID}
	}
	return dedupe(req.CreatorID, memberIDs), nil
}

// dedupe returns creator followed by ids in first-seen order, without repeats.
func dedupe(creator int64, ids []int64) []int64 {
	out := make([]int64, 0, len(ids)+1)
	seen := map[int64]bool{creator: true}
	out = append(out, creator)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
