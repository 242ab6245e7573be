package seeder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	postsDomain "github.com/philly/memo-board/internal/posts/domain"
	postsPorts "github.com/philly/memo-board/internal/posts/ports"
	usersDomain "github.com/philly/memo-board/internal/users/domain"
	usersPorts "github.com/philly/memo-board/internal/users/ports"
)

// DefaultPassword is the password shared by every seeded account.
const DefaultPassword = "password123"

// BoardConfig sizes the generated board.
type BoardConfig struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
}

// DefaultBoardConfig returns the sizes used by cmd/seed.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{Users: 5, PostsPerUser: 4, CommentsPerPost: 3}
}

var (
	adjectives = []string{"quiet", "rapid", "amber", "lucky", "mellow", "brave", "tiny", "cosmic", "gentle", "witty"}
	nouns      = []string{"otter", "falcon", "maple", "comet", "panda", "harbor", "pixel", "lantern", "willow", "badger"}
	words      = []string{
		"memo", "board", "note", "idea", "draft", "weekend", "project", "coffee", "deploy", "review",
		"music", "study", "game", "morning", "build", "queue", "garden", "river", "window", "signal",
		"simple", "late", "early", "shared", "careful", "bright", "small", "remote", "local", "fresh",
		"writes", "reads", "tries", "finds", "plans", "keeps", "moves", "checks", "learns", "starts",
	}
	categories = []string{"game", "study", "dev", ""}
)

// UsersSeeder registers fake accounts directly through the user repository.
type UsersSeeder struct {
	repo   usersPorts.UserRepository
	hasher usersPorts.PasswordHasher
	count  int
	rng    *rand.Rand
	now    func() time.Time

	created []uuid.UUID
}

// NewUsersSeeder creates a seeder for count users.
func NewUsersSeeder(repo usersPorts.UserRepository, hasher usersPorts.PasswordHasher, count int, rng *rand.Rand) *UsersSeeder {
	return &UsersSeeder{
		repo:   repo,
		hasher: hasher,
		count:  count,
		rng:    rng,
		now:    time.Now,
	}
}

// Name returns the name of this seeder
func (s *UsersSeeder) Name() string {
	return "UsersSeeder"
}

// Seed creates the accounts. Every account uses DefaultPassword.
func (s *UsersSeeder) Seed(ctx context.Context) error {
	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	taken := make(map[string]struct{}, s.count)
	s.created = s.created[:0]
	for len(s.created) < s.count {
		username := s.username()
		if _, ok := taken[username]; ok {
			continue
		}
		taken[username] = struct{}{}

		user, err := usersDomain.NewUser(username, hash, s.now().UTC())
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", username, err)
		}
		s.created = append(s.created, user.ID)
	}
	return nil
}

// UserIDs returns the accounts created by the last Seed call.
func (s *UsersSeeder) UserIDs() []uuid.UUID {
	return s.created
}

func (s *UsersSeeder) username() string {
	return fmt.Sprintf("%s_%s%d",
		adjectives[s.rng.IntN(len(adjectives))],
		nouns[s.rng.IntN(len(nouns))],
		s.rng.IntN(100),
	)
}

// PostsSeeder writes backdated posts with comments for the seeded users.
type PostsSeeder struct {
	repo     postsPorts.PostRepository
	users    *UsersSeeder
	perUser  int
	comments int
	rng      *rand.Rand
	now      func() time.Time
}

// NewPostsSeeder creates a seeder whose authors come from users. It must run
// after users.
func NewPostsSeeder(repo postsPorts.PostRepository, users *UsersSeeder, cfg BoardConfig, rng *rand.Rand) *PostsSeeder {
	return &PostsSeeder{
		repo:     repo,
		users:    users,
		perUser:  cfg.PostsPerUser,
		comments: cfg.CommentsPerPost,
		rng:      rng,
		now:      time.Now,
	}
}

// Name returns the name of this seeder
func (s *PostsSeeder) Name() string {
	return "PostsSeeder"
}

// Seed creates the posts. Creation times fall in the last 30 days and each
// comment lands 1 to 48 hours after its post.
func (s *PostsSeeder) Seed(ctx context.Context) error {
	authors := s.users.UserIDs()
	if len(authors) == 0 {
		return errors.New("no users to author posts")
	}

	now := s.now().UTC()
	for _, author := range authors {
		for i := 0; i < s.perUser; i++ {
			post, err := s.post(author, now)
			if err != nil {
				return err
			}
			if err := s.repo.Create(ctx, post); err != nil {
				return fmt.Errorf("failed to create post: %w", err)
			}
		}
	}
	return nil
}

func (s *PostsSeeder) post(author uuid.UUID, now time.Time) (*postsDomain.Post, error) {
	createdAt := now.Add(-time.Duration(s.rng.IntN(31)) * 24 * time.Hour)
	image := fmt.Sprintf("https://picsum.photos/seed/%d/960/540", s.rng.IntN(1_000_000))

	post, err := postsDomain.NewPost(
		author,
		s.sentence(6),
		s.paragraphs(3),
		&image,
		categories[s.rng.IntN(len(categories))],
		postsDomain.Counters{
			Likes:    int64(s.rng.IntN(151)),
			Dislikes: int64(s.rng.IntN(31)),
		},
		createdAt,
	)
	if err != nil {
		return nil, err
	}

	authors := s.users.UserIDs()
	for i := 0; i < s.comments; i++ {
		at := createdAt.Add(time.Duration(1+s.rng.IntN(48)) * time.Hour)
		comment, err := postsDomain.NewComment(authors[s.rng.IntN(len(authors))], s.sentence(18), at)
		if err != nil {
			return nil, err
		}
		post.AddComment(comment, at)
	}
	post.Touch(createdAt)
	return post, nil
}

func (s *PostsSeeder) sentence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[s.rng.IntN(len(words))]
	}
	out := strings.Join(parts, " ")
	return strings.ToUpper(out[:1]) + out[1:] + "."
}

func (s *PostsSeeder) paragraphs(n int) string {
	paras := make([]string, n)
	for i := range paras {
		sentences := make([]string, 3+s.rng.IntN(3))
		for j := range sentences {
			sentences[j] = s.sentence(8 + s.rng.IntN(8))
		}
		paras[i] = strings.Join(sentences, " ")
	}
	return strings.Join(paras, "\n\n")
}
