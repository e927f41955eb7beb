package main

import (
	"context"
	"fmt"
	"time"

	"github.com/codequest-edu/codequest/core/curriculum"
)

// seed loads a small sample curriculum for local development. It is not
// idempotent; run it against a fresh database.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	sub, err := cli.currRepo.CreateSubject(ctx, curriculum.Subject{
		Name:        "JavaScript",
		Description: "The language of the web",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}

	type challengeSeed struct {
		title, description, instructions, starter, solution string
	}
	type sectionSeed struct {
		title      string
		order      int
		challenges []challengeSeed
	}

	sections := map[string][]sectionSeed{
		curriculum.DifficultyBeginner: {
			{
				title: "Getting Started", order: 1,
				challenges: []challengeSeed{
					{
						title:        "Hello World",
						description:  "Print a greeting to the console.",
						instructions: "Log the string 'Hello, World!' to the console.",
						starter:      "// your code here\n",
						solution:     "console.log('Hello, World!')",
					},
					{
						title:        "Variables",
						description:  "Declare and use a variable.",
						instructions: "Declare a constant named greeting holding 'hi' and log it.",
						starter:      "// your code here\n",
						solution:     "const greeting = 'hi'\nconsole.log(greeting)",
					},
				},
			},
			{
				title: "Functions", order: 2,
				challenges: []challengeSeed{
					{
						title:        "Add Two Numbers",
						description:  "Write your first function.",
						instructions: "Write a function add(a, b) that returns their sum.",
						starter:      "function add(a, b) {\n  // your code here\n}\n",
						solution:     "function add(a, b) {\n  return a + b\n}",
					},
				},
			},
		},
		curriculum.DifficultyIntermediate: {
			{
				title: "Arrays", order: 1,
				challenges: []challengeSeed{
					{
						title:        "Sum an Array",
						description:  "Reduce an array to a single value.",
						instructions: "Write a function sum(xs) that returns the sum of all numbers in xs.",
						starter:      "function sum(xs) {\n  // your code here\n}\n",
						solution:     "function sum(xs) {\n  return xs.reduce((a, b) => a + b, 0)\n}",
					},
				},
			},
		},
	}

	for _, diffName := range curriculum.DifficultyNames {
		secs, ok := sections[diffName]
		if !ok {
			continue
		}
		diff, err := cli.currRepo.CreateDifficulty(ctx, curriculum.Difficulty{
			SubjectID: sub.ID,
			Name:      diffName,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		for _, ss := range secs {
			sec, err := cli.currRepo.CreateSection(ctx, curriculum.Section{
				DifficultyID: diff.ID,
				Title:        ss.title,
				Order:        ss.order,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return err
			}

			for i, cs := range ss.challenges {
				if _, err := cli.currRepo.CreateChallenge(ctx, curriculum.Challenge{
					SectionID:    sec.ID,
					Title:        cs.title,
					Description:  cs.description,
					Instructions: cs.instructions,
					StarterCode:  cs.starter,
					Solution:     cs.solution,
					Order:        i + 1,
					CreatedAt:    now,
					UpdatedAt:    now,
				}); err != nil {
					return err
				}
			}
		}
	}

	fmt.Printf("seeded curriculum for subject %q\n", sub.Name)
	return nil
}
