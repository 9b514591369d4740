package membership

import (
	"errors"
	"fmt"
	"time"

	"mifi-backend/internal/domain/loan"
)

var (
	ErrNotFound            = errors.New("group member status not found")
	ErrInsufficientMembers = errors.New("a group loan needs at least two distinct members")
)

// MinMembers is the floor enforced on creation and on every membership replace.
const MinMembers = 2

// GroupMemberStatus is one member's participation in a group loan. The
// frequency letter is always copied from the parent group.
type GroupMemberStatus struct {
	ID              uint64               `gorm:"primaryKey;column:id" json:"id"`
	GroupLoanID     uint64               `gorm:"column:group_loan_id;not null;uniqueIndex:ux_member_status" json:"group_loan_id"`
	MemberID        uint64               `gorm:"column:member_id;not null;uniqueIndex:ux_member_status;index" json:"member_id"`
	FrequencyLetter loan.FrequencyLetter `gorm:"column:frequency_letter;size:1;not null;uniqueIndex:ux_member_status" json:"frequency_letter"`
	IsBlocked       bool                 `gorm:"column:is_blocked;not null" json:"is_blocked"`
	BlockedAt       *time.Time           `gorm:"column:blocked_at" json:"blocked_at"`
	BlockedByID     *uint64              `gorm:"column:blocked_by_id" json:"blocked_by"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GroupMemberStatus) TableName() string { return "group_member_statuses" }

// Block stamps who blocked the member and when.
func (s *GroupMemberStatus) Block(actorID uint64, at time.Time) {
	at = at.UTC()
	s.IsBlocked = true
	s.BlockedAt = &at
	s.BlockedByID = &actorID
}

// Unblock clears the block and its audit stamp.
func (s *GroupMemberStatus) Unblock() {
	s.IsBlocked = false
	s.BlockedAt = nil
	s.BlockedByID = nil
}

func (s *GroupMemberStatus) SetBlocked(blocked bool, actorID uint64, at time.Time) {
	if blocked {
		s.Block(actorID, at)
		return
	}
	s.Unblock()
}

// DistinctMembers drops zero ids and duplicates, keeping first-seen order.
func DistinctMembers(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BuildStatuses returns one unblocked status row per distinct member, carrying
// the group's frequency letter. The group must already have its internal ID.
func BuildStatuses(g *loan.GroupLoan, memberIDs []uint64) ([]GroupMemberStatus, error) {
	ids := DistinctMembers(memberIDs)
	if len(ids) < MinMembers {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientMembers, len(ids))
	}
	out := make([]GroupMemberStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, GroupMemberStatus{
			GroupLoanID:     g.ID,
			MemberID:        id,
			FrequencyLetter: g.FrequencyLetter,
		})
	}
	return out, nil
}

type Filter struct {
	GroupLoanID     *uint64
	MemberID        *uint64
	FrequencyLetter loan.FrequencyLetter
	IsBlocked       *bool
	Limit           int
	Offset          int
}
