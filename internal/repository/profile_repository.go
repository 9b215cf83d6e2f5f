package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

const profileColumns = `user_id, name, bio, location, avatar, teaching_skills, learning_interests,
	rating, total_reviews, time_balance, completed_exchanges, achievements, skill_progress,
	settings, created_at, updated_at`

type PostgresProfileRepository struct {
	q database.Querier
}

func NewPostgresProfileRepository(q database.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{q: q}
}

func (r *PostgresProfileRepository) Get(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`,
		id,
	))
	if err != nil {
		if database.IsNoRows(err) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) ListAll(ctx context.Context) ([]user.Profile, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+profileColumns+` FROM user_profiles ORDER BY created_at ASC, user_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Patch is a single upsert: absent profiles are created from the patch, and
// existing ones keep every column the patch leaves nil.
func (r *PostgresProfileRepository) Patch(ctx context.Context, id uuid.UUID, patch user.ProfilePatch) (user.Profile, error) {
	var teaching, learning, achievements any
	if patch.TeachingSkills != nil {
		teaching = user.UniqueStrings(*patch.TeachingSkills)
	}
	if patch.LearningInterests != nil {
		learning = user.UniqueStrings(*patch.LearningInterests)
	}
	if len(patch.Achievements) > 0 {
		achievements = user.UniqueStrings(patch.Achievements)
	}

	var progress any
	if len(patch.SkillProgress) > 0 {
		b, err := json.Marshal(patch.SkillProgress)
		if err != nil {
			return user.Profile{}, fmt.Errorf("encode skill progress: %w", err)
		}
		progress = string(b)
	}
	var settings any
	if patch.Settings != nil {
		settings = string(patch.Settings)
	}

	p, err := scanProfile(r.q.QueryRow(ctx,
		`INSERT INTO user_profiles (user_id, name, bio, location, avatar, teaching_skills, learning_interests,
			achievements, skill_progress, settings)
		 VALUES ($1, COALESCE($2::text, ''), COALESCE($3::text, ''), COALESCE($4::text, ''), COALESCE($5::text, ''),
			COALESCE($6::text[], '{}'), COALESCE($7::text[], '{}'), COALESCE($8::text[], '{}'),
			COALESCE($9::jsonb, '{}'::jsonb), COALESCE($10::jsonb, '{}'::jsonb))
		 ON CONFLICT (user_id) DO UPDATE SET
			name = COALESCE($2::text, user_profiles.name),
			bio = COALESCE($3::text, user_profiles.bio),
			location = COALESCE($4::text, user_profiles.location),
			avatar = COALESCE($5::text, user_profiles.avatar),
			teaching_skills = COALESCE($6::text[], user_profiles.teaching_skills),
			learning_interests = COALESCE($7::text[], user_profiles.learning_interests),
			achievements = user_profiles.achievements || ARRAY(
				SELECT a FROM unnest(COALESCE($8::text[], '{}')) AS a
				WHERE NOT (a = ANY(user_profiles.achievements))
			),
			skill_progress = user_profiles.skill_progress || COALESCE($9::jsonb, '{}'::jsonb),
			settings = COALESCE($10::jsonb, user_profiles.settings),
			updated_at = now()
		 RETURNING `+profileColumns,
		id, patch.Name, patch.Bio, patch.Location, patch.Avatar,
		teaching, learning, achievements, progress, settings,
	))
	if err != nil {
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) AdjustTimeBalance(ctx context.Context, id uuid.UUID, delta int) error {
	affected, err := r.q.Exec(ctx,
		`UPDATE user_profiles
		 SET time_balance = time_balance + $2,
			completed_exchanges = completed_exchanges + 1,
			updated_at = now()
		 WHERE user_id = $1`,
		id, delta,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanProfile(row database.Row) (user.Profile, error) {
	var (
		p        user.Profile
		progress []byte
		settings []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Bio, &p.Location, &p.Avatar, &p.TeachingSkills, &p.LearningInterests,
		&p.Rating, &p.TotalReviews, &p.TimeBalance, &p.CompletedExchanges, &p.Achievements, &progress,
		&settings, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return user.Profile{}, err
	}
	if len(progress) > 0 {
		if err := json.Unmarshal(progress, &p.SkillProgress); err != nil {
			return user.Profile{}, fmt.Errorf("decode skill progress: %w", err)
		}
	}
	if len(settings) > 0 {
		p.Settings = json.RawMessage(settings)
	}
	return p, nil
}
