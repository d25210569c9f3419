package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/logger"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository/driver"
	"github.com/stemsi/gdeval-backend/internal/service"
)

const demoPassword = "gdeval123"

var demoStudents = []struct {
	name    string
	roll    string
	section string
}{
	{"Aarav Sharma", "CS2001", "A"},
	{"Diya Patel", "CS2002", "A"},
	{"Kabir Singh", "CS2003", "A"},
	{"Meera Iyer", "CS2004", "A"},
	{"Rohan Gupta", "CS2005", "B"},
	{"Sara Khan", "CS2006", "B"},
	{"Vikram Rao", "CS2007", "B"},
	{"Ananya Das", "CS2008", "B"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Fatal().Msg("STORE_DRIVER=memory keeps nothing; use postgres or sqlite")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, closeStores, err := driver.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer closeStores()

	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(stores.Users, authService, log)
	sessionService := service.NewGDSessionService(stores.Sessions, log)
	evaluationService := service.NewEvaluationService(sessionService, stores.Evaluations, nil, nil, log)

	fmt.Printf("=== Seeding demo data (password %q) ===\n", demoPassword)

	instructor, err := registerOrLogin(ctx, userService, model.RegisterRequest{
		Name: "Demo Instructor", Email: "instructor@gdeval.local", Password: demoPassword,
		Role: model.RoleInstructor, Designation: "Assistant Professor",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed instructor")
	}

	students := make(map[string]*model.Actor, len(demoStudents))
	rolls := make([]string, 0, len(demoStudents))
	for _, s := range demoStudents {
		u, err := registerOrLogin(ctx, userService, model.RegisterRequest{
			Name: s.name, Email: strings.ToLower(s.roll) + "@gdeval.local", Password: demoPassword,
			Role: model.RoleStudent, RollNumber: s.roll, Department: "CSE", Section: s.section, Year: "2",
		})
		if err != nil {
			log.Fatal().Err(err).Str("roll_number", s.roll).Msg("Failed to seed student")
		}
		students[s.roll] = u.Actor()
		rolls = append(rolls, s.roll)
	}
	fmt.Printf("Seeded %d students.\n", len(students))

	// Two groups; each half evaluates the other.
	groups := [][]string{rolls[:4], rolls[4:]}
	for i, participants := range groups {
		evaluators := groups[1-i]
		gd, err := sessionService.Create(ctx, model.CreateGDSessionRequest{
			Topic:        fmt.Sprintf("Demo discussion %d", i+1),
			Details:      "Seeded session for trying out the evaluation flow.",
			GroupName:    fmt.Sprintf("Group %c", 'A'+i),
			GroupNumber:  fmt.Sprint(i + 1),
			Date:         time.Now().AddDate(0, 0, -7*(len(groups)-i)).Format(model.DateLayout),
			Participants: strings.Join(participants, ","),
			Evaluators:   strings.Join(evaluators, ","),
		}, instructor.Actor())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed session")
		}

		submitted := 0
		for j, subject := range participants {
			base := float64(5 + (i+j)%4)
			if _, err := evaluationService.Submit(ctx, gd.ID, subject, demoCriteria(base+1), instructor.Actor()); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed instructor evaluation")
			}
			submitted++
			for k, evaluator := range evaluators {
				if _, err := evaluationService.Submit(ctx, gd.ID, subject, demoCriteria(base+float64(k%3)-1), students[evaluator]); err != nil {
					log.Fatal().Err(err).Msg("Failed to seed peer evaluation")
				}
				submitted++
			}
		}
		fmt.Printf("Created session %s (%s) with %d evaluations.\n", gd.ID, gd.Topic, submitted)
	}

	fmt.Println("\nSeed completed!")
}

// registerOrLogin creates the account, or signs in when it already exists so
// the seed can be rerun.
func registerOrLogin(ctx context.Context, users *service.UserService, req model.RegisterRequest) (*model.User, error) {
	u, err := users.Register(ctx, req)
	if errors.Is(err, service.ErrEmailTaken) {
		return users.Authenticate(ctx, req.Email, req.Password)
	}
	return u, err
}

func demoCriteria(v float64) model.Criteria {
	v = min(max(v, model.MinScore), model.MaxScore)
	return model.Criteria{
		Articulation:           v,
		Relevance:              min(v+1, model.MaxScore),
		Leadership:             v,
		NonVerbalCommunication: max(v-1, model.MinScore),
		Impression:             v,
	}
}
