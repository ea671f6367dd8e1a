package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniapply/internal/config"
	"uniapply/internal/db"
	"uniapply/internal/logger"
	"uniapply/internal/model"
	"uniapply/internal/repository"
	"uniapply/internal/service"
	"uniapply/internal/storage"
)

// SeedUniversity is one catalog entry in the seed source.
type SeedUniversity struct {
	Name        string   `json:"name"`
	Thumbnail   string   `json:"thumbnail"`
	Location    string   `json:"location"`
	Established *int     `json:"established"`
	Students    *int     `json:"students"`
	Ranking     *int     `json:"ranking"`
	Faculties   []string `json:"faculties"`
	Divisions   []string `json:"divisions"`
}

func main() {
	configPath := flag.String("config", "", "path to a config file")
	source := flag.String("source", "", "JSON file or http(s) URL with universities to load")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	gormDB, err := db.NewMySQL(cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, false, zlog); err != nil {
		zlog.Fatal("database migrate", zap.Error(err))
	}
	zlog.Info("database ready")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	universityRepo := repository.NewUniversityRepository(gormDB)

	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		sink, err := storage.New(cfg.Storage)
		if err != nil {
			zlog.Fatal("storage init", zap.Error(err))
		}
		users := service.NewUserService(userRepo, sink, zlog)
		if err := seedAdmin(ctx, userRepo, users, email, os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
			zlog.Fatal("seed admin", zap.Error(err))
		}
		zlog.Info("staff user ready", zap.String("email", email))
	}

	if *source == "" {
		zlog.Info("no -source given, skipping universities")
		return
	}

	entries, err := loadSource(*source)
	if err != nil {
		zlog.Fatal("load source", zap.String("source", *source), zap.Error(err))
	}
	zlog.Info("fetched universities", zap.Int("count", len(entries)))

	created, skipped, err := seedUniversities(ctx, universityRepo, entries)
	if err != nil {
		zlog.Fatal("seed universities", zap.Error(err))
	}
	zlog.Info("seed completed", zap.Int("created", created), zap.Int("skipped", skipped))
}

// seedAdmin registers the staff account if missing and makes sure it carries the staff flag.
func seedAdmin(ctx context.Context, repo repository.UserRepository, users service.UserService, email, password string) error {
	user, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up %s: %w", email, err)
	}
	if user == nil {
		if user, err = users.Register(ctx, service.RegisterInput{Email: email, Password: password, FirstName: "Admin"}); err != nil {
			return err
		}
	}
	if user.IsStaff {
		return nil
	}
	user.IsStaff = true
	return repo.Update(ctx, user)
}

func loadSource(source string) ([]SeedUniversity, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var entries []SeedUniversity
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return entries, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seedUniversities inserts entries whose name is not in the catalog yet, with their faculties and divisions.
func seedUniversities(ctx context.Context, repo repository.UniversityRepository, entries []SeedUniversity) (created, skipped int, err error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list universities: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, u := range existing {
		known[strings.ToLower(u.Name)] = true
	}

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" || known[strings.ToLower(name)] {
			skipped++
			continue
		}

		university := &model.University{
			Name:        name,
			Thumbnail:   entry.Thumbnail,
			Location:    entry.Location,
			Established: valueOr(entry.Established, model.DefaultEstablished),
			Students:    valueOr(entry.Students, model.DefaultStudents),
			Ranking:     valueOr(entry.Ranking, model.DefaultRanking),
		}
		if err := repo.Create(ctx, university); err != nil {
			return created, skipped, fmt.Errorf("create %q: %w", name, err)
		}
		for _, f := range entry.Faculties {
			if err := repo.AddFaculty(ctx, &model.Faculty{Name: f, UniversityID: university.ID}); err != nil {
				return created, skipped, fmt.Errorf("add faculty %q to %q: %w", f, name, err)
			}
		}
		for _, d := range entry.Divisions {
			if err := repo.AddDivision(ctx, &model.Division{Name: d, UniversityID: university.ID}); err != nil {
				return created, skipped, fmt.Errorf("add division %q to %q: %w", d, name, err)
			}
		}
		known[strings.ToLower(name)] = true
		created++
	}
	return created, skipped, nil
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
