package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"
	"yatube/internal/adapters/database"
	"yatube/internal/core/apperror"
	"yatube/internal/core/comment"
	"yatube/internal/core/follower"
	"yatube/internal/core/group"
	"yatube/internal/core/pagination"
	"yatube/internal/core/post"
	"yatube/internal/core/user"
	"yatube/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func createUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u, err := database.NewUserRepositoryDatabase(db).Create(context.Background(), &user.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Password: "x",
	})
	require.NoError(t, err)
	return u
}

func createGroup(t *testing.T, db *gorm.DB, slug string) *group.Group {
	t.Helper()
	g, err := database.NewGroupRepositoryDatabase(db).Create(context.Background(), &group.Group{
		ID:    uuid.Must(uuid.NewV4()),
		Title: "Group " + slug,
		Slug:  slug,
	})
	require.NoError(t, err)
	return g
}

func createPost(t *testing.T, db *gorm.DB, author *user.User, g *group.Group, i int) *post.Post {
	t.Helper()
	p := &post.Post{
		ID:       uuid.Must(uuid.NewV4()),
		Text:     fmt.Sprintf("post number %d", i),
		PubDate:  base.Add(time.Duration(i) * time.Minute),
		AuthorID: author.ID,
	}
	if g != nil {
		p.GroupID = &g.ID
	}
	created, err := database.NewPostRepositoryDatabase(db).Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestPostRepository_ListAllPages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	author := createUser(t, db, "leo")
	for i := 0; i < 13; i++ {
		createPost(t, db, author, nil, i)
	}
	ctx := context.Background()

	first, total, err := repo.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 13, total)
	require.Len(t, first, 10)
	assert.Equal(t, "post number 12", first[0].Text, "newest post comes first")
	assert.Equal(t, "leo", first[0].Author.Username)

	second, _, err := repo.ListAll(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, "post number 0", second[2].Text)

	third, total, err := repo.ListAll(ctx, 20, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 13, total)
	assert.Empty(t, third)
}

func TestPostRepository_ListByGroupAndAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	leo := createUser(t, db, "leo")
	ann := createUser(t, db, "ann")
	cats := createGroup(t, db, "cats")
	dogs := createGroup(t, db, "dogs")

	catPost := createPost(t, db, leo, cats, 1)
	createPost(t, db, ann, dogs, 2)
	createPost(t, db, ann, nil, 3)
	ctx := context.Background()

	posts, total, err := repo.ListByGroup(ctx, cats.ID.String(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, catPost.ID, posts[0].ID)
	require.NotNil(t, posts[0].Group)
	assert.Equal(t, "cats", posts[0].Group.Slug)

	posts, total, err = repo.ListByAuthor(ctx, ann.ID.String(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, p := range posts {
		assert.Equal(t, ann.ID, p.AuthorID)
	}

	count, err := repo.CountByAuthor(ctx, leo.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPostRepository_UpdateKeepsAuthorAndDate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	leo := createUser(t, db, "leo")
	cats := createGroup(t, db, "cats")
	p := createPost(t, db, leo, cats, 1)
	ctx := context.Background()

	p.Text = "edited"
	p.GroupID = nil
	p.Image = "posts/cat.png"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, "posts/cat.png", got.Image)
	assert.Equal(t, leo.ID, got.AuthorID)
	assert.True(t, base.Add(time.Minute).Equal(got.PubDate))
}

func TestPostRepository_FindByIDMissing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)

	_, err := repo.FindByID(context.Background(), uuid.Must(uuid.NewV4()).String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGroupRepository_DeleteKeepsPosts(t *testing.T) {
	db := testutil.NewDB(t)
	groups := database.NewGroupRepositoryDatabase(db)
	posts := database.NewPostRepositoryDatabase(db)
	leo := createUser(t, db, "leo")
	cats := createGroup(t, db, "cats")
	p := createPost(t, db, leo, cats, 1)
	ctx := context.Background()

	require.NoError(t, groups.Delete(ctx, cats.ID.String()))

	got, err := posts.FindByID(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	_, err = groups.FindBySlug(ctx, "cats")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = groups.Delete(ctx, cats.ID.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFollowerRepository_FollowIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewFollowerRepositoryDatabase(db)
	leo := createUser(t, db, "leo")
	ann := createUser(t, db, "ann")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Follow(ctx, &follower.Follow{
			ID:       uuid.Must(uuid.NewV4()),
			UserID:   leo.ID,
			AuthorID: ann.ID,
		}))
	}

	var rows int64
	require.NoError(t, db.Model(&follower.Follow{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	following, err := repo.IsFollowing(ctx, leo.ID.String(), ann.ID.String())
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := repo.CountFollowers(ctx, ann.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers)

	require.NoError(t, repo.Unfollow(ctx, leo.ID.String(), ann.ID.String()))
	require.NoError(t, repo.Unfollow(ctx, leo.ID.String(), ann.ID.String()))

	following, err = repo.IsFollowing(ctx, leo.ID.String(), ann.ID.String())
	require.NoError(t, err)
	assert.False(t, following)
}

func TestPostRepository_ListFollowed(t *testing.T) {
	db := testutil.NewDB(t)
	posts := database.NewPostRepositoryDatabase(db)
	follows := database.NewFollowerRepositoryDatabase(db)
	reader := createUser(t, db, "reader")
	followed := createUser(t, db, "followed")
	stranger := createUser(t, db, "stranger")
	ctx := context.Background()

	require.NoError(t, follows.Follow(ctx, &follower.Follow{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   reader.ID,
		AuthorID: followed.ID,
	}))
	want := createPost(t, db, followed, nil, 1)
	createPost(t, db, stranger, nil, 2)

	feed, total, err := posts.ListFollowed(ctx, reader.ID.String(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, feed, 1)
	assert.Equal(t, want.ID, feed[0].ID)

	feed, total, err = posts.ListFollowed(ctx, stranger.ID.String(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, feed)
}

func TestCommentRepository_ListByPostOldestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewCommentRepositoryDatabase(db)
	leo := createUser(t, db, "leo")
	p := createPost(t, db, leo, nil, 1)
	ctx := context.Background()

	for i, text := range []string{"second", "first"} {
		_, err := repo.Create(ctx, &comment.Comment{
			ID:       uuid.Must(uuid.NewV4()),
			PostID:   p.ID,
			AuthorID: leo.ID,
			Text:     text,
			Created:  base.Add(time.Duration(1-i) * time.Hour),
		})
		require.NoError(t, err)
	}

	comments, err := repo.ListByPost(ctx, p.ID.String())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "leo", comments[0].Author.Username)
}

func TestPostRepository_EveryListingPages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	author := createUser(t, db, "leo")
	reader := createUser(t, db, "reader")
	cats := createGroup(t, db, "cats")
	for i := 0; i < 13; i++ {
		createPost(t, db, author, cats, i)
	}
	require.NoError(t, database.NewFollowerRepositoryDatabase(db).Follow(context.Background(), &follower.Follow{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   reader.ID,
		AuthorID: author.ID,
	}))

	listings := map[string]func(ctx context.Context, offset, limit int) ([]*post.Post, int64, error){
		"index": repo.ListAll,
		"group": func(ctx context.Context, offset, limit int) ([]*post.Post, int64, error) {
			return repo.ListByGroup(ctx, cats.ID.String(), offset, limit)
		},
		"profile": func(ctx context.Context, offset, limit int) ([]*post.Post, int64, error) {
			return repo.ListByAuthor(ctx, author.ID.String(), offset, limit)
		},
		"follow": func(ctx context.Context, offset, limit int) ([]*post.Post, int64, error) {
			return repo.ListFollowed(ctx, reader.ID.String(), offset, limit)
		},
	}
	for name, list := range listings {
		t.Run(name, func(t *testing.T) {
			for i, want := range []int{10, 3, 0} {
				posts, total, err := list(context.Background(), i*10, 10)
				require.NoError(t, err)
				assert.EqualValues(t, 13, total)
				assert.Len(t, posts, want, "page %d", i+1)
			}
		})
	}
}

func TestPostRepository_HugePageIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	author := createUser(t, db, "leo")
	for i := 0; i < 3; i++ {
		createPost(t, db, author, nil, i)
	}
	ctx := context.Background()

	page := pagination.New(922337203685477582, pagination.DefaultPerPage, 0)
	posts, total, err := repo.ListAll(ctx, page.Offset(), page.Limit())
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, posts)

	posts, _, err = repo.ListAll(ctx, -10, 10)
	require.NoError(t, err)
	assert.Empty(t, posts, "a negative offset never falls back to the first page")
}

func TestPostRepository_ListFollowedHonorsContext(t *testing.T) {
	db := testutil.NewDB(t)
	repo := database.NewPostRepositoryDatabase(db)
	reader := createUser(t, db, "reader")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.ListFollowed(ctx, reader.ID.String(), 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
