package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talent-allocator/internal/types"
)

// AvailableCertificates retrieves all certificates with their skill lists.
func (db *DB) AvailableCertificates(ctx context.Context) ([]types.Certificate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, course_name, difficulty, duration_hours, cost
		 FROM certificates
		 ORDER BY course_name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	var certs []types.Certificate
	for rows.Next() {
		var c types.Certificate
		if err := rows.Scan(&c.ID, &c.CourseName, &c.Difficulty, &c.DurationHours, &c.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range certs {
		skills, err := db.certificateSkills(ctx, certs[i].ID)
		if err != nil {
			return nil, err
		}
		certs[i].Skills = skills
	}
	return certs, nil
}

func (db *DB) certificateSkills(ctx context.Context, certID string) ([]types.CertificateSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, level, is_prerequisite
		 FROM certificate_skills
		 WHERE certificate_id = $1`,
		certID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills for certificate %s: %w", certID, err)
	}
	defer rows.Close()

	var skills []types.CertificateSkill
	for rows.Next() {
		var s types.CertificateSkill
		if err := rows.Scan(&s.SkillID, &s.Level, &s.IsPrerequisite); err != nil {
			return nil, fmt.Errorf("failed to scan certificate skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// CareerPaths retrieves every career path with its required skill profile.
func (db *DB) CareerPaths(ctx context.Context) ([]types.CareerPath, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, target_label FROM career_paths ORDER BY target_label ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list career paths: %w", err)
	}
	defer rows.Close()

	var paths []types.CareerPath
	for rows.Next() {
		var p types.CareerPath
		if err := rows.Scan(&p.ID, &p.TargetLabel); err != nil {
			return nil, fmt.Errorf("failed to scan career path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range paths {
		skillRows, err := db.pool.Query(ctx,
			`SELECT skill_id, required_level, weight, priority
			 FROM path_skills
			 WHERE path_id = $1
			 ORDER BY priority DESC, weight DESC`,
			paths[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list skills for path %s: %w", paths[i].ID, err)
		}

		var skills []types.RequiredPathSkill
		for skillRows.Next() {
			var s types.RequiredPathSkill
			if err := skillRows.Scan(&s.SkillID, &s.RequiredLevel, &s.Weight, &s.Priority); err != nil {
				skillRows.Close()
				return nil, fmt.Errorf("failed to scan path skill: %w", err)
			}
			skills = append(skills, s)
		}
		skillRows.Close()
		if err := skillRows.Err(); err != nil {
			return nil, err
		}
		paths[i].Skills = skills
	}
	return paths, nil
}

// HeldCertificates retrieves the ids of certificates the user already holds.
func (db *DB) HeldCertificates(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT certificate_id FROM user_certificates WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list held certificates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan held certificate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserSkillLevels retrieves the user's current level per skill.
func (db *DB) UserSkillLevels(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, level FROM user_skills WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skill levels: %w", err)
	}
	defer rows.Close()

	levels := make(map[string]int)
	for rows.Next() {
		var skillID string
		var level int
		if err := rows.Scan(&skillID, &level); err != nil {
			return nil, fmt.Errorf("failed to scan user skill level: %w", err)
		}
		levels[skillID] = level
	}
	return levels, rows.Err()
}

// MarketDemand retrieves normalized demand scores for the given skills.
// Skills without a demand row are simply absent from the result.
func (db *DB) MarketDemand(ctx context.Context, skillIDs []string) (map[string]float64, error) {
	if len(skillIDs) == 0 {
		return map[string]float64{}, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, demand_score FROM market_demand WHERE skill_id = ANY($1)`,
		skillIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list market demand: %w", err)
	}
	defer rows.Close()

	demand := make(map[string]float64)
	for rows.Next() {
		var skillID string
		var score float64
		if err := rows.Scan(&skillID, &score); err != nil {
			return nil, fmt.Errorf("failed to scan market demand: %w", err)
		}
		demand[skillID] = score
	}
	return demand, rows.Err()
}

// ExistingLevels retrieves any learning levels already persisted for a path.
// A non-empty result makes a new optimization run a no-op.
func (db *DB) ExistingLevels(ctx context.Context, pathID string) ([]types.LearningLevel, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT number, name, COALESCE(description, ''), certificate_ids, prerequisite_levels
		 FROM learning_levels
		 WHERE path_id = $1
		 ORDER BY number ASC`,
		pathID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing levels: %w", err)
	}
	defer rows.Close()

	var result []types.LearningLevel
	for rows.Next() {
		var level types.LearningLevel
		var certIDs, prereqs []byte
		if err := rows.Scan(&level.Number, &level.Name, &level.Description, &certIDs, &prereqs); err != nil {
			return nil, fmt.Errorf("failed to scan learning level: %w", err)
		}
		if len(certIDs) > 0 {
			if err := json.Unmarshal(certIDs, &level.CertificateIDs); err != nil {
				return nil, fmt.Errorf("failed to decode certificate ids: %w", err)
			}
		}
		if len(prereqs) > 0 {
			if err := json.Unmarshal(prereqs, &level.PrerequisiteLevels); err != nil {
				return nil, fmt.Errorf("failed to decode prerequisite levels: %w", err)
			}
		}
		result = append(result, level)
	}
	return result, rows.Err()
}

// PersistPathOptimization stores an optimization run and its levels.
func (db *DB) PersistPathOptimization(ctx context.Context, result *types.PathOptimizationResult) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin optimization transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	runID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO path_optimizations (id, path_id, path_name, score, evaluations, estimated_hours, estimated_cost)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, result.PathID, result.PathName, result.Score, result.Evaluations,
		result.EstimatedHours, result.EstimatedCost,
	); err != nil {
		return fmt.Errorf("failed to save optimization run: %w", err)
	}

	for _, level := range result.Levels {
		certIDs, err := json.Marshal(level.CertificateIDs)
		if err != nil {
			return fmt.Errorf("failed to encode certificate ids: %w", err)
		}
		prereqs, err := json.Marshal(level.PrerequisiteLevels)
		if err != nil {
			return fmt.Errorf("failed to encode prerequisite levels: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO learning_levels (path_id, optimization_id, number, name, description, certificate_ids, prerequisite_levels)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (path_id, number) DO UPDATE
			 SET optimization_id = $2, name = $4, description = $5, certificate_ids = $6, prerequisite_levels = $7`,
			result.PathID, runID, level.Number, level.Name, level.Description, certIDs, prereqs,
		); err != nil {
			return fmt.Errorf("failed to save level %d: %w", level.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit optimization: %w", err)
	}
	return nil
}
