// Package bootstrap wires adapters and services from Settings. Both the server
// and the admin CLI start from here.
package bootstrap

import (
	"context"
	dbadapter "yatube/internal/adapters/database"
	memoryadapter "yatube/internal/adapters/memory"
	redisadapter "yatube/internal/adapters/redis"
	storageadapter "yatube/internal/adapters/storage"
	"yatube/internal/config"
	commentapp "yatube/internal/core/comment/service"
	followerapp "yatube/internal/core/follower/service"
	groupapp "yatube/internal/core/group/service"
	pagecacheapp "yatube/internal/core/pagecache/service"
	postapp "yatube/internal/core/post/service"
	userapp "yatube/internal/core/user/service"
	cachePort "yatube/internal/ports/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds every service of the running process.
type App struct {
	Settings  *config.Settings
	DB        *gorm.DB
	Users     *userapp.UserService
	Groups    *groupapp.GroupService
	Posts     *postapp.PostService
	Comments  *commentapp.CommentService
	Followers *followerapp.FollowerService
	PageCache *pagecacheapp.PageCacheService
}

// Open connects to the database (and redis when selected) and builds the services.
func Open(ctx context.Context, s *config.Settings) (*App, error) {
	if err := config.InitDB(s); err != nil {
		return nil, err
	}

	var cache cachePort.PageCache
	switch s.CacheBackend {
	case "redis":
		if err := config.InitRedis(ctx, s); err != nil {
			_ = config.CloseDB()
			return nil, err
		}
		cache = redisadapter.NewPageCacheRedis(config.RedisClient)
	default:
		cache = memoryadapter.NewPageCacheMemory()
	}

	return New(s, config.DB, cache), nil
}

// New builds the services on an already opened database and cache.
func New(s *config.Settings, db *gorm.DB, cache cachePort.PageCache) *App {
	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(db)
	media := storageadapter.NewLocalStorage(s.MediaRoot)

	return &App{
		Settings:  s,
		DB:        db,
		Users:     userapp.NewUserService(userRepo, []byte(s.JWTSecret)),
		Groups:    groupapp.NewGroupService(groupRepo),
		Posts:     postapp.NewPostService(postRepo, groupRepo, userRepo, commentRepo, followerRepo, media, s.PerPage),
		Comments:  commentapp.NewCommentService(commentRepo, postRepo, userRepo),
		Followers: followerapp.NewFollowerService(followerRepo, userRepo, postRepo, s.PerPage),
		PageCache: pagecacheapp.NewPageCacheService(cache, s.IndexCacheTTL),
	}
}

// Migrate creates or updates the schema.
func (a *App) Migrate() error {
	return dbadapter.Migrate(a.DB)
}

// Close releases redis and database connections.
func (a *App) Close() {
	if err := config.CloseRedis(); err != nil {
		config.Logger.Error("Error closing Redis connection", zap.Error(err))
	}
	if err := config.CloseDB(); err != nil {
		config.Logger.Error("Error closing database connection", zap.Error(err))
	}
}
