package group

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	groups  map[int64]*Group
	members map[int64]map[int64]*GroupMember
	invites map[string]*Invite
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:  make(map[int64]*Group),
		members: make(map[int64]map[int64]*GroupMember),
		invites: make(map[string]*Invite),
	}
}

func (f *fakeStore) Create(ctx context.Context, createdBy int64, req *CreateGroupRequest) (*Group, error) {
	f.nextID++
	g := &Group{ID: f.nextID, Name: req.Name, CreatedBy: createdBy, CreatedAt: time.Now()}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Group, error) {
	return f.groups[id], nil
}

func (f *fakeStore) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var out []*Group
	for id, ms := range f.members {
		if _, ok := ms[userID]; ok {
			out = append(out, f.groups[id])
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	g := f.groups[id]
	if g != nil && req.Name != nil {
		g.Name = *req.Name
	}
	return g, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.groups, id)
	return nil
}

func (f *fakeStore) AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	if f.members[groupID] == nil {
		f.members[groupID] = make(map[int64]*GroupMember)
	}
	m := &GroupMember{GroupID: groupID, UserID: userID, Role: role, Status: status, JoinedAt: time.Now()}
	f.members[groupID][userID] = m
	return m, nil
}

func (f *fakeStore) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	return f.members[groupID][userID], nil
}

func (f *fakeStore) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	var out []*GroupMember
	for _, m := range f.members[groupID] {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) RemoveMember(ctx context.Context, groupID, userID int64) error {
	if _, ok := f.members[groupID][userID]; !ok {
		return ErrMemberNotFound
	}
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeStore) CreateInvite(ctx context.Context, token string, groupID, createdBy int64) (*Invite, error) {
	inv := &Invite{Token: token, GroupID: groupID, CreatedBy: createdBy, CreatedAt: time.Now()}
	f.invites[token] = inv
	return inv, nil
}

func (f *fakeStore) GetInvite(ctx context.Context, token string) (*Invite, error) {
	return f.invites[token], nil
}

type nopActivity struct{}

func (nopActivity) GroupCreated(ctx context.Context, groupID, actorID int64, groupName string) {}
func (nopActivity) MemberAdded(ctx context.Context, groupID, actorID, memberID int64)          {}
func (nopActivity) MemberJoined(ctx context.Context, groupID, actorID int64)                   {}

func TestCreateEnrollsCreatorAsAdmin(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopActivity{})

	g, err := svc.Create(context.Background(), 1, &CreateGroupRequest{Name: "Trip"})
	require.NoError(t, err)

	m, err := store.GetMember(context.Background(), g.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, MemberRoleAdmin, m.Role)
	assert.Equal(t, MemberStatusJoined, m.Status)
}

func TestMembershipChecks(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopActivity{})
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Trip"})
	require.NoError(t, err)

	t.Run("outsider cannot view", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, g.ID)
		assert.ErrorIs(t, err, ErrNotGroupMember)
	})

	t.Run("only admins add members", func(t *testing.T) {
		_, err := svc.AddMember(ctx, 1, g.ID, &AddMemberRequest{UserID: 2})
		require.NoError(t, err)

		_, err = svc.AddMember(ctx, 2, g.ID, &AddMemberRequest{UserID: 3})
		assert.ErrorIs(t, err, ErrNotGroupAdmin)
	})

	t.Run("duplicate member rejected", func(t *testing.T) {
		_, err := svc.AddMember(ctx, 1, g.ID, &AddMemberRequest{UserID: 2})
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("member can leave, admin cannot", func(t *testing.T) {
		assert.NoError(t, svc.RemoveMember(ctx, 2, g.ID, 2))
		assert.ErrorIs(t, svc.RemoveMember(ctx, 1, g.ID, 1), ErrCannotRemoveSelf)
	})
}

func TestInviteFlow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nopActivity{})
	ctx := context.Background()

	g, err := svc.Create(ctx, 1, &CreateGroupRequest{Name: "Flat"})
	require.NoError(t, err)

	invite, err := svc.CreateInvite(ctx, 1, g.ID)
	require.NoError(t, err)
	require.NotEmpty(t, invite.Token)

	m, err := svc.Join(ctx, 2, invite.Token)
	require.NoError(t, err)
	assert.Equal(t, g.ID, m.GroupID)
	assert.Equal(t, MemberRoleMember, m.Role)

	t.Run("joining twice rejected", func(t *testing.T) {
		_, err := svc.Join(ctx, 2, invite.Token)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := svc.Join(ctx, 3, "nope")
		assert.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("outsider cannot mint invites", func(t *testing.T) {
		_, err := svc.CreateInvite(ctx, 99, g.ID)
		assert.ErrorIs(t, err, ErrNotGroupMember)
	})
}
