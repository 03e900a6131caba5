package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/database"
	"github.com/mrlokans/studentlearn/internal/database/questions"
	"github.com/mrlokans/studentlearn/internal/database/subjects"
	"github.com/mrlokans/studentlearn/internal/entities"
)

// defaultSubjects is the starter catalog seeded into a fresh installation.
var defaultSubjects = []entities.Subject{
	{Name: "Mathematics", Description: "Algebra, geometry, calculus and arithmetic practice"},
	{Name: "Physics", Description: "Mechanics, electricity, waves and modern physics"},
	{Name: "Chemistry", Description: "Atomic structure, reactions and organic chemistry"},
	{Name: "Biology", Description: "Cells, genetics, ecology and human biology"},
	{Name: "Computer Science", Description: "Programming, algorithms and computer fundamentals"},
}

// sampleQuestions gives each seeded subject something to practice with.
var sampleQuestions = map[string][]entities.Question{
	"Mathematics": {
		{
			QuestionText:    "What is 12 × 8?",
			OptionA:         "88",
			OptionB:         "96",
			OptionC:         "104",
			OptionD:         "86",
			CorrectAnswer:   "B",
			Explanation:     "12 × 8 = 96.",
			DifficultyLevel: entities.DifficultyEasy,
		},
		{
			QuestionText:    "What is the derivative of x²?",
			OptionA:         "x",
			OptionB:         "2x",
			OptionC:         "x²",
			OptionD:         "2",
			CorrectAnswer:   "B",
			Explanation:     "d/dx(x²) = 2x by the power rule.",
			DifficultyLevel: entities.DifficultyMedium,
		},
	},
	"Physics": {
		{
			QuestionText:    "What is the SI unit of force?",
			OptionA:         "Joule",
			OptionB:         "Watt",
			OptionC:         "Newton",
			OptionD:         "Pascal",
			CorrectAnswer:   "C",
			Explanation:     "Force is measured in newtons (N).",
			DifficultyLevel: entities.DifficultyEasy,
		},
	},
	"Computer Science": {
		{
			QuestionText:    "What is the time complexity of binary search?",
			OptionA:         "O(n)",
			OptionB:         "O(n log n)",
			OptionC:         "O(log n)",
			OptionD:         "O(1)",
			CorrectAnswer:   "C",
			Explanation:     "Binary search halves the search space each step.",
			DifficultyLevel: entities.DifficultyMedium,
		},
	},
}

// SeedSubjectsCommand populates the starter catalog. Running it twice is
// safe: subjects are matched by name and never duplicated.
type SeedSubjectsCommand struct {
	DatabasePath  string
	WithQuestions bool
}

func NewSeedSubjectsCommand() *SeedSubjectsCommand {
	return &SeedSubjectsCommand{}
}

func (cmd *SeedSubjectsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-subjects", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.WithQuestions, "with-questions", true, "Also seed sample questions for each subject")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-subjects [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the default subject catalog. Existing subjects are left untouched,\n")
		fmt.Fprintf(os.Stderr, "so the command can be re-run after adding new defaults.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedSubjectsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	subjectRepo := subjects.NewRepository(db.DB)
	questionRepo := questions.NewRepository(db.DB)

	created, skipped := 0, 0
	for _, seed := range defaultSubjects {
		existing, err := subjectRepo.GetByName(seed.Name)
		if err == nil {
			fmt.Printf("  exists: %s\n", existing.Name)
			skipped++
			continue
		}
		if !errors.Is(err, subjects.ErrSubjectNotFound) {
			return fmt.Errorf("failed to look up subject %q: %w", seed.Name, err)
		}

		subject := seed
		subject.IsActive = true
		if err := subjectRepo.Create(&subject); err != nil {
			return fmt.Errorf("failed to create subject %q: %w", seed.Name, err)
		}
		fmt.Printf("  created: %s\n", subject.Name)
		created++

		if !cmd.WithQuestions {
			continue
		}
		for _, q := range sampleQuestions[subject.Name] {
			question := q
			question.SubjectID = subject.ID
			question.IsActive = true
			if err := questionRepo.Create(&question); err != nil {
				return fmt.Errorf("failed to seed question for %q: %w", subject.Name, err)
			}
		}
	}

	fmt.Printf("Done: %d created, %d already present\n", created, skipped)
	return nil
}
