package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
)

// stubCollectionStore is a scriptable CollectionStore.
type stubCollectionStore struct {
	createErr error
	deleteOK  bool
	deleteErr error
	cols      []*db.Collection
	listErr   error
	upserts   []string
	upsertErr error
	created   []string
	deleted   []string
}

func (s *stubCollectionStore) CreateCollection(_ context.Context, userID, name string) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.created = append(s.created, userID+"/"+name)
	return 1, nil
}

func (s *stubCollectionStore) DeleteCollection(_ context.Context, userID, name string) (bool, error) {
	s.deleted = append(s.deleted, userID+"/"+name)
	return s.deleteOK, s.deleteErr
}

func (s *stubCollectionStore) ListCollections(context.Context, string) ([]*db.Collection, error) {
	return s.cols, s.listErr
}

func (s *stubCollectionStore) UpsertUser(_ context.Context, userID, username string) error {
	s.upserts = append(s.upserts, userID+"/"+username)
	return s.upsertErr
}

type CollectionSuite struct {
	suite.Suite
	store   *stubCollectionStore
	handler *Collection
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionSuite))
}

func (s *CollectionSuite) SetupTest() {
	s.store = &stubCollectionStore{}
	s.handler = NewCollection(s.store)
}

func (s *CollectionSuite) TestName() {
	require.Equal(s.T(), "collection", s.handler.Name())
}

func (s *CollectionSuite) TestAdd() {
	i := commandInteraction("collection", "u1", subOpt("add", stringOpt("name", "winter reds")))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "Created collection")
	require.Equal(s.T(), []string{"u1/winter reds"}, s.store.created)
	require.Equal(s.T(), []string{"u1/khloe"}, s.store.upserts)
}

func (s *CollectionSuite) TestAddTrimsName() {
	i := commandInteraction("collection", "u1", subOpt("add", stringOpt("name", "  winter reds  ")))

	_, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"u1/winter reds"}, s.store.created)
}

func (s *CollectionSuite) TestAddRejectsEmptyName() {
	i := commandInteraction("collection", "u1", subOpt("add", stringOpt("name", "   ")))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "1-60 characters")
	require.Empty(s.T(), s.store.created)
}

func (s *CollectionSuite) TestAddRejectsOverlongName() {
	i := commandInteraction("collection", "u1",
		subOpt("add", stringOpt("name", strings.Repeat("x", 61))))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "1-60 characters")
}

func (s *CollectionSuite) TestAddDuplicateIsFriendly() {
	s.store.createErr = errors.New("UNIQUE constraint failed: collections.user_id, collections.name")
	i := commandInteraction("collection", "u1", subOpt("add", stringOpt("name", "winter reds")))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "already have a collection")
}

func (s *CollectionSuite) TestAddStoreFaultPropagates() {
	s.store.createErr = errors.New("disk I/O error")
	i := commandInteraction("collection", "u1", subOpt("add", stringOpt("name", "winter reds")))

	_, err := s.handler.Handle(context.Background(), i)
	require.Error(s.T(), err)
}

func (s *CollectionSuite) TestRemove() {
	s.store.deleteOK = true
	i := commandInteraction("collection", "u1", subOpt("remove", stringOpt("name", "winter reds")))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "Deleted collection")
	require.Equal(s.T(), []string{"u1/winter reds"}, s.store.deleted)
}

func (s *CollectionSuite) TestRemoveMissing() {
	i := commandInteraction("collection", "u1", subOpt("remove", stringOpt("name", "nope")))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "don't have a collection")
}

func (s *CollectionSuite) TestListEmpty() {
	i := commandInteraction("collection", "u1", subOpt("list"))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "no collections yet")
	require.Equal(s.T(), discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func (s *CollectionSuite) TestListShowsNames() {
	s.store.cols = []*db.Collection{{Name: "autumn"}, {Name: "winter reds"}}
	i := commandInteraction("collection", "u1", subOpt("list"))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "autumn")
	require.Contains(s.T(), resp.Data.Content, "winter reds")
	// A single page needs no pager buttons.
	require.Empty(s.T(), resp.Data.Components)
}

func (s *CollectionSuite) TestUnknownSubcommand() {
	i := commandInteraction("collection", "u1", subOpt("rename"))

	resp, err := s.handler.Handle(context.Background(), i)
	require.NoError(s.T(), err)
	require.Contains(s.T(), resp.Data.Content, "isn't available yet")
}

func (s *CollectionSuite) TestUpsertFailureAborts() {
	s.store.upsertErr = errors.New("db locked")
	i := commandInteraction("collection", "u1", subOpt("list"))

	_, err := s.handler.Handle(context.Background(), i)
	require.Error(s.T(), err)
}
