package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/skill"
)

// Catalog is the starter skill catalog. The in-memory store loads the same
// entries so both drivers serve an identical catalog.
func Catalog() []skill.CatalogEntry {
	return []skill.CatalogEntry{
		{Name: "JavaScript Programming", Description: "Learn modern JavaScript including ES6+ features, async/await, and more.", Category: "Programming", EstimatedHours: 10},
		{Name: "React Development", Description: "Build interactive UIs with React, including hooks, context, and state management.", Category: "Programming", EstimatedHours: 15},
		{Name: "Python Basics", Description: "Get started with Python programming language fundamentals.", Category: "Programming", EstimatedHours: 8},
		{Name: "UI/UX Design", Description: "Learn principles of user interface and experience design.", Category: "Design", EstimatedHours: 12},
		{Name: "Adobe Photoshop", Description: "Master image editing and manipulation with Photoshop.", Category: "Design", EstimatedHours: 20},
		{Name: "Spanish Conversation", Description: "Practice conversational Spanish with a fluent speaker.", Category: "Languages", EstimatedHours: 15},
		{Name: "French for Beginners", Description: "Learn basic French vocabulary, grammar, and pronunciation.", Category: "Languages", EstimatedHours: 20},
		{Name: "Guitar Lessons", Description: "Learn to play guitar from basic chords to advanced techniques.", Category: "Music", EstimatedHours: 25},
		{Name: "Piano Fundamentals", Description: "Get started with piano playing and music theory basics.", Category: "Music", EstimatedHours: 20},
		{Name: "Italian Cooking", Description: "Learn to make authentic Italian dishes from scratch.", Category: "Cooking", EstimatedHours: 8},
		{Name: "Baking Essentials", Description: "Master the fundamentals of baking breads, cakes, and pastries.", Category: "Cooking", EstimatedHours: 10},
		{Name: "Yoga for Beginners", Description: "Learn basic yoga poses and breathing techniques.", Category: "Fitness", EstimatedHours: 6},
		{Name: "Home Workout Routines", Description: "Effective exercise routines you can do without equipment.", Category: "Fitness", EstimatedHours: 5},
		{Name: "Digital Marketing", Description: "Learn social media marketing, SEO, and content strategy.", Category: "Business", EstimatedHours: 15},
		{Name: "Personal Finance", Description: "Budgeting, saving, and investing for beginners.", Category: "Business", EstimatedHours: 8},
		{Name: "Mathematics Tutoring", Description: "Help with algebra, calculus, and other math subjects.", Category: "Academic", EstimatedHours: 10},
		{Name: "Essay Writing", Description: "Improve your academic writing skills for better essays and papers.", Category: "Academic", EstimatedHours: 6},
	}
}

var skillsTable = Table{
	Name:     "skills",
	Columns:  []string{"name", "description", "category", "estimated_hours"},
	Conflict: "name",
}

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }
func (SkillsSeeder) Table() Table { return skillsTable }

// Seed inserts catalog entries that are not there yet, matched by name.
func (SkillsSeeder) Seed(ctx context.Context, tx database.Querier) (int64, error) {
	query := skillsTable.InsertSQL()
	var inserted int64
	for _, it := range Catalog() {
		n, err := tx.Exec(ctx, query, it.Name, it.Description, it.Category, it.EstimatedHours)
		if err != nil {
			return inserted, fmt.Errorf("insert skill %q: %w", it.Name, err)
		}
		inserted += n
	}
	return inserted, nil
}
