package groupapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	groupEntity "yatube/internal/core/group"
	groupPort "yatube/internal/ports/group"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	GroupRepository groupPort.GroupRepository
}

func NewGroupService(repo groupPort.GroupRepository) *GroupService {
	return &GroupService{GroupRepository: repo}
}

// CreateGroup validates the slug and stores a new group.
func (s *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*groupPort.GroupDTO, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if title == "" {
		return nil, apperror.Invalid("title", "This field is required.")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperror.Invalid("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}

	if _, err := s.GroupRepository.FindBySlug(ctx, slug); err == nil {
		return nil, apperror.Invalid("slug", "Group with this slug already exists.")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	g, err := s.GroupRepository.Create(ctx, &groupEntity.Group{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	config.Logger.Info("Group created", zap.String("slug", g.Slug))
	return groupPort.ToDTO(g), nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error) {
	groups, err := s.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*groupPort.GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, groupPort.ToDTO(g))
	}
	return dtos, nil
}

// DeleteGroup removes the group; its posts stay and lose their group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.GroupRepository.Delete(ctx, g.ID.String()); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", slug, err)
	}
	config.Logger.Info("Group deleted", zap.String("slug", slug))
	return nil
}
