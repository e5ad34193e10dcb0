package postapp_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"yatube/internal/adapters/database"
	"yatube/internal/adapters/storage"
	"yatube/internal/core/apperror"
	groupapp "yatube/internal/core/group/service"
	"yatube/internal/core/post"
	postapp "yatube/internal/core/post/service"
	userapp "yatube/internal/core/user/service"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	posts  *postapp.PostService
	users  *userapp.UserService
	groups *groupapp.GroupService
	media  *storage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := database.NewUserRepositoryDatabase(db)
	groupRepo := database.NewGroupRepositoryDatabase(db)
	media := storage.NewLocalStorage(t.TempDir())

	users := userapp.NewUserService(userRepo, []byte("test-secret"))
	users.PasswordCost = bcrypt.MinCost

	return &fixture{
		posts: postapp.NewPostService(
			database.NewPostRepositoryDatabase(db),
			groupRepo,
			userRepo,
			database.NewCommentRepositoryDatabase(db),
			database.NewFollowerRepositoryDatabase(db),
			media,
			10,
		),
		users:  users,
		groups: groupapp.NewGroupService(groupRepo),
		media:  media,
	}
}

func (f *fixture) register(t *testing.T, username string) *userPort.UserDTO {
	t.Helper()
	u, err := f.users.RegisterUser(context.Background(), userPort.RegisterInput{
		Username: username,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestCreatePost_WithGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")
	g, err := f.groups.CreateGroup(ctx, "Cats", "cats", "")
	require.NoError(t, err)

	created, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{
		Text:    "  A post about cats and nothing else  ",
		GroupID: g.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "A post about cats and nothing else", created.Text)
	assert.Equal(t, "A post about ca", created.Title)
	require.NotNil(t, created.Group)
	assert.Equal(t, "cats", created.Group.Slug)
	assert.Equal(t, "leo", created.Author.Username)

	page, err := f.posts.ListGroup(ctx, "cats", 1)
	require.NoError(t, err)
	require.Len(t, page.Page.Posts, 1)
	assert.Equal(t, created.ID, page.Page.Posts[0].ID)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")

	tests := []struct {
		name  string
		in    postPort.PostInput
		field string
	}{
		{name: "blank text", in: postPort.PostInput{Text: "   "}, field: "text"},
		{name: "malformed group", in: postPort.PostInput{Text: "hi", GroupID: "nope"}, field: "group"},
		{name: "unknown group", in: postPort.PostInput{Text: "hi", GroupID: "6f1d0c6e-7b7e-4a55-9d8e-2a4e6c1f0b11"}, field: "group"},
		{
			name:  "not an image",
			in:    postPort.PostInput{Text: "hi", Image: &postPort.ImageUpload{Filename: "a.png", Content: strings.NewReader("plain text")}},
			field: "image",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.CreatePost(ctx, leo.ID, tt.in)
			ve, ok := apperror.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	page, err := f.posts.ListIndex(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreatePost_StoresImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")

	created, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{
		Text:  "with picture",
		Image: &postPort.ImageUpload{Filename: "small.gif", Content: bytes.NewReader(pngBytes(t))},
	})
	require.NoError(t, err)
	assert.Equal(t, "posts/small.gif", created.Image)

	_, err = os.Stat(filepath.Join(f.media.Root, filepath.FromSlash(created.Image)))
	assert.NoError(t, err)
}

// failingPosts fails every write while reads go to the real repository.
type failingPosts struct {
	postPort.PostRepository
}

func (failingPosts) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	return nil, errors.New("database is down")
}

func (failingPosts) Update(ctx context.Context, p *post.Post) error {
	return errors.New("database is down")
}

func storedImages(t *testing.T, f *fixture) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.media.Root, "posts"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestCreatePost_FailedWriteRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")
	f.posts.PostRepository = failingPosts{f.posts.PostRepository}

	_, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{
		Text:  "with picture",
		Image: &postPort.ImageUpload{Filename: "small.png", Content: bytes.NewReader(pngBytes(t))},
	})
	require.Error(t, err)
	assert.Empty(t, storedImages(t, f))
}

func TestEditPost_FailedWriteRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")
	created, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{Text: "original"})
	require.NoError(t, err)
	f.posts.PostRepository = failingPosts{f.posts.PostRepository}

	_, err = f.posts.EditPost(ctx, leo.ID, created.ID, postPort.PostInput{
		Text:  "with picture",
		Image: &postPort.ImageUpload{Filename: "small.png", Content: bytes.NewReader(pngBytes(t))},
	})
	require.Error(t, err)
	assert.Empty(t, storedImages(t, f))
}

func TestEditPost_OnlyAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")
	ann := f.register(t, "ann")

	created, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{Text: "original"})
	require.NoError(t, err)

	_, err = f.posts.EditPost(ctx, ann.ID, created.ID, postPort.PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.posts.GetPostForEdit(ctx, ann.ID, created.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	detail, err := f.posts.GetPostDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", detail.Post.Text)

	edited, err := f.posts.EditPost(ctx, leo.ID, created.ID, postPort.PostInput{Text: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "changed", edited.Text)
	assert.True(t, created.PubDate.Equal(edited.PubDate))

	detail, err = f.posts.GetPostDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", detail.Post.Text)
	assert.EqualValues(t, 1, detail.AuthorPostsCount)
}

func TestGetPostDetail_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.GetPostDetail(context.Background(), "unexisting_page")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListIndex_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.posts.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	for i := 0; i < 13; i++ {
		_, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{Text: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}

	first, err := f.posts.ListIndex(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, "post 12", first.Posts[0].Text)
	assert.Equal(t, 2, first.NumPages)
	assert.True(t, first.HasNext())

	second, err := f.posts.ListIndex(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.False(t, second.HasNext())

	beyond, err := f.posts.ListIndex(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)

	huge, err := f.posts.ListIndex(ctx, 922337203685477582)
	require.NoError(t, err)
	assert.Empty(t, huge.Posts, "a page far beyond the data is empty")
	assert.EqualValues(t, 13, huge.Total)
}

func TestListProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leo := f.register(t, "leo")
	f.register(t, "ann")

	_, err := f.posts.CreatePost(ctx, leo.ID, postPort.PostInput{Text: "hello"})
	require.NoError(t, err)

	profile, err := f.posts.ListProfile(ctx, "leo", "", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.PostsCount)
	assert.False(t, profile.Following)
	assert.False(t, profile.IsSelf)

	profile, err = f.posts.ListProfile(ctx, "leo", leo.ID, 1)
	require.NoError(t, err)
	assert.True(t, profile.IsSelf)

	_, err = f.posts.ListProfile(ctx, "nobody", "", 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
