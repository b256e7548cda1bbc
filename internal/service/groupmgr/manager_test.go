package groupmgr

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nimbus_chat_server/internal/dao/mysql/repository"
	"nimbus_chat_server/internal/model"
	"nimbus_chat_server/internal/mq"
	"nimbus_chat_server/internal/service/chatlist"
	"nimbus_chat_server/pkg/enum/thread/mention_mode_enum"
	"nimbus_chat_server/pkg/enum/thread/story_view_mode_enum"
	"nimbus_chat_server/pkg/errorx"
)

// memCache is an in-memory AsyncCacheService. SubmitTask runs the action
// synchronously so cache effects are visible right after the call.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func (c *memCache) SubmitTask(action func()) { action() }

// captureBroker records published events.
type captureBroker struct {
	mu     sync.Mutex
	events []mq.ThreadEvent
}

func (b *captureBroker) Publish(ev mq.ThreadEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *captureBroker) Subscribe(fn mq.Subscriber) {}
func (b *captureBroker) Start()                     {}
func (b *captureBroker) Close() error               { return nil }

func (b *captureBroker) published() []mq.ThreadEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]mq.ThreadEvent, len(b.events))
	copy(out, b.events)
	return out
}

type fixture struct {
	mgr    *GroupManager
	repos  *repository.Repositories
	cache  *memCache
	broker *captureBroker
	list   *chatlist.Coalescer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "threads.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.GroupThread{}, &model.GroupMember{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cache := newMemCache()
	broker := &captureBroker{}
	// flushed manually by the tests, the interval never fires
	list := chatlist.NewCoalescer(time.Hour, func(string) {})

	repos := repository.NewRepositories(db)
	return &fixture{
		mgr:    NewGroupManager(repos, cache, broker, list),
		repos:  repos,
		cache:  cache,
		broker: broker,
		list:   list,
	}
}

func testGroupModel(t *testing.T, groupId string, members ...string) model.GroupModel {
	t.Helper()
	m := model.GroupModel{
		GroupId:  groupId,
		Name:     "climbing",
		Avatar:   "avatars/a1.png",
		Revision: 1,
	}
	if err := m.SetMemberUuids(members); err != nil {
		t.Fatalf("set member uuids: %v", err)
	}
	return m
}

func TestEnsureGroupThreadIsIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1", "U2"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.Uuid == "" {
		t.Fatal("created thread has no uuid")
	}

	second, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1", "U2"))
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if second.Uuid != first.Uuid {
		t.Fatalf("second ensure returned uuid %s, want %s", second.Uuid, first.Uuid)
	}

	cnt, err := f.repos.GroupMember.CountByGroupId("G1")
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if cnt != 2 {
		t.Fatalf("member mirror has %d rows, want 2", cnt)
	}
}

func TestEnsureGroupThreadRequiresGroupId(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(model.GroupModel{}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("got %v, want invalid-param", err)
	}
}

func TestUpdateGroupModelRejectsStaleRevision(t *testing.T) {
	f := newFixture(t)

	m := testGroupModel(t, "G1", "U1")
	m.Revision = 5
	if _, err := f.mgr.EnsureGroupThread(m); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	stale := testGroupModel(t, "G1", "U1")
	stale.Revision = 3
	err := f.mgr.UpdateGroupModel("G1", stale, true)
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("got %v, want conflict", err)
	}

	// the stored model must be untouched
	thread, err := f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.GroupModel.Revision != 5 {
		t.Fatalf("stored revision %d, want 5", thread.GroupModel.Revision)
	}
}

func TestUpdateGroupModelRejectsIdentityChange(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	renamed := testGroupModel(t, "G2", "U1")
	if err := f.mgr.UpdateGroupModel("G1", renamed, true); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("got %v, want invalid-param", err)
	}
}

func TestUpdateGroupModelPublishesAvatarChanged(t *testing.T) {
	f := newFixture(t)

	created, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// same avatar: no event
	unchanged := testGroupModel(t, "G1", "U1", "U2")
	unchanged.Revision = 2
	if err := f.mgr.UpdateGroupModel("G1", unchanged, true); err != nil {
		t.Fatalf("update: %v", err)
	}
	if evs := f.broker.published(); len(evs) != 0 {
		t.Fatalf("published %d events for unchanged avatar, want 0", len(evs))
	}

	// new avatar: one avatar-changed event keyed by the thread uuid
	changed := testGroupModel(t, "G1", "U1", "U2")
	changed.Avatar = "avatars/a2.png"
	changed.Revision = 3
	if err := f.mgr.UpdateGroupModel("G1", changed, true); err != nil {
		t.Fatalf("update: %v", err)
	}
	evs := f.broker.published()
	if len(evs) != 1 {
		t.Fatalf("published %d events, want 1", len(evs))
	}
	if evs[0].Type != mq.EventAvatarChanged || evs[0].ThreadUuid != created.Uuid {
		t.Fatalf("published %+v, want avatar_changed for %s", evs[0], created.Uuid)
	}
}

func TestUpdateGroupModelSyncsMemberMirror(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1", "U2")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	next := testGroupModel(t, "G1", "U1", "U3", "U4")
	next.Revision = 2
	if err := f.mgr.UpdateGroupModel("G1", next, false); err != nil {
		t.Fatalf("update: %v", err)
	}

	members, err := f.repos.GroupMember.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find members: %v", err)
	}
	got := map[string]bool{}
	for _, m := range members {
		got[m.MemberUuid] = true
	}
	if len(got) != 3 || !got["U1"] || !got["U3"] || !got["U4"] {
		t.Fatalf("member mirror %v, want U1 U3 U4", got)
	}
}

func TestUpdateDraftIsNotUserFacing(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	f.list.Flush()

	ts := int64(1700000000000)
	ranges := []model.BodyRange{{Start: 0, Length: 4, MentionUuid: "U1"}}
	if err := f.mgr.UpdateDraft("G1", "hey @U1", ranges, &ts); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	// a draft alone never forces a chat-list rebuild
	if n := f.list.Flush(); n != 0 {
		t.Fatalf("draft update emitted %d refreshes, want 0", n)
	}

	thread, err := f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.MessageDraft != "hey @U1" {
		t.Fatalf("stored draft %q", thread.MessageDraft)
	}
	decoded, err := model.DecodeBodyRanges(thread.MessageDraftBodyRanges)
	if err != nil {
		t.Fatalf("decode ranges: %v", err)
	}
	if len(decoded) != 1 || decoded[0].MentionUuid != "U1" {
		t.Fatalf("stored ranges %+v", decoded)
	}
	if !thread.EditTargetTimestamp.Valid || thread.EditTargetTimestamp.Int64 != ts {
		t.Fatalf("stored edit target %+v, want %d", thread.EditTargetTimestamp, ts)
	}

	// clearing the draft clears the edit target
	if err := f.mgr.UpdateDraft("G1", "", nil, nil); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	thread, err = f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.MessageDraft != "" || thread.EditTargetTimestamp.Valid {
		t.Fatalf("draft not cleared: %q %+v", thread.MessageDraft, thread.EditTargetTimestamp)
	}
}

func TestSetVisibleIsUserFacing(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	f.list.Flush()

	if err := f.mgr.SetVisible("G1", true); err != nil {
		t.Fatalf("set visible: %v", err)
	}
	if n := f.list.Flush(); n != 1 {
		t.Fatalf("visibility change emitted %d refreshes, want 1", n)
	}

	thread, err := f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !thread.ShouldThreadBeVisible {
		t.Fatal("thread not visible after SetVisible(true)")
	}
}

func TestSetModes(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := f.mgr.SetMentionNotificationMode("G1", mention_mode_enum.NEVER); err != nil {
		t.Fatalf("set mention mode: %v", err)
	}
	if err := f.mgr.SetStoryViewMode("G1", story_view_mode_enum.DISABLED); err != nil {
		t.Fatalf("set story mode: %v", err)
	}

	thread, err := f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.MentionNotificationMode != mention_mode_enum.NEVER {
		t.Fatalf("mention mode %d", thread.MentionNotificationMode)
	}
	if thread.StoryViewMode != story_view_mode_enum.DISABLED {
		t.Fatalf("story mode %d", thread.StoryViewMode)
	}

	if err := f.mgr.SetStoryViewMode("G1", 9); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("out-of-range mode: %v, want invalid-param", err)
	}
}

func TestRecordInteractionIsMonotone(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	first, err := f.mgr.RecordInteraction("G1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	second, err := f.mgr.RecordInteraction("G1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if second <= first {
		t.Fatalf("ordering key went from %d to %d, want increase", first, second)
	}

	thread, err := f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.LastInteractionRowId != second {
		t.Fatalf("stored row id %d, want %d", thread.LastInteractionRowId, second)
	}

	// a lower key must never overwrite a higher one
	if err := f.repos.Thread.TouchLastInteraction(thread.Uuid, first); err != nil {
		t.Fatalf("touch: %v", err)
	}
	thread, err = f.repos.Thread.FindByGroupId("G1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if thread.LastInteractionRowId != second {
		t.Fatalf("stored row id %d after stale touch, want %d", thread.LastInteractionRowId, second)
	}
}

func TestDeleteGroupThread(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1", "U2")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := f.mgr.DeleteGroupThread("G1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.repos.Thread.FindByGroupId("G1"); !errorx.IsNotFound(err) {
		t.Fatalf("find after delete: %v, want not-found", err)
	}
	cnt, err := f.repos.GroupMember.CountByGroupId("G1")
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("member mirror has %d rows after delete, want 0", cnt)
	}

	if err := f.mgr.DeleteGroupThread("G1"); !errorx.IsNotFound(err) {
		t.Fatalf("second delete: %v, want not-found", err)
	}
}

func TestFetchGroupThreadServesFromCache(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.EnsureGroupThread(testGroupModel(t, "G1", "U1")); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// first fetch hits the database and writes back to the cache
	rsp, err := f.mgr.FetchGroupThread("G1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rsp.GroupId != "G1" {
		t.Fatalf("fetched group %s, want G1", rsp.GroupId)
	}
	if cached, _ := f.cache.Get(context.Background(), threadCacheKey("G1")); cached == "" {
		t.Fatal("fetch did not populate the cache")
	}

	// with the row gone the cached snapshot still answers
	if err := f.repos.Thread.SoftDeleteByGroupId("G1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	rsp, err = f.mgr.FetchGroupThread("G1")
	if err != nil {
		t.Fatalf("fetch from cache: %v", err)
	}
	if rsp.GroupId != "G1" {
		t.Fatalf("cached fetch returned group %s, want G1", rsp.GroupId)
	}
}

func TestFetchGroupThreadUnknownGroup(t *testing.T) {
	f := newFixture(t)

	if _, err := f.mgr.FetchGroupThread("G404"); !errorx.IsNotFound(err) {
		t.Fatalf("got %v, want not-found", err)
	}
}
