package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
)

// queryTimeout borne chaque appel au stockage: échec rapide plutôt
// qu'attente non bornée
const queryTimeout = 5 * time.Second

// Postgres implémente Store sur pgxpool avec du SQL brut
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// --- Actions ---

func (s *Postgres) AppendAction(ctx context.Context, action model.UserAction) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	meta, err := json.Marshal(action.Metadata)
	if err != nil {
		return fmt.Errorf("could not encode action metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_actions(id, user_id, type, metadata, created_at)
		VALUES($1, $2, $3, $4, $5)
	`, action.ID, action.UserID, string(action.Type), meta, action.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert user action: %w", err)
	}
	return nil
}

func (s *Postgres) RecentActions(ctx context.Context, userID string, limit int) ([]model.UserAction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, type, metadata, created_at
		FROM user_actions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query recent actions: %w", err)
	}
	defer rows.Close()

	var actions []model.UserAction
	for rows.Next() {
		var a model.UserAction
		var kind string
		var meta []byte
		if err := rows.Scan(&a.ID, &a.UserID, &kind, &meta, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan action row: %w", err)
		}
		a.Type = model.ActionType(kind)
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &a.Metadata)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *Postgres) TopByAction(ctx context.Context, kind model.ActionType, limit int) ([]model.ActionLeaderboardEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		WITH action_counts AS (
			SELECT
				ua.user_id,
				COUNT(*) as action_count
			FROM user_actions ua
			WHERE ua.type = $1
			GROUP BY ua.user_id
		),
		ranked_users AS (
			SELECT
				ac.user_id,
				ac.action_count,
				ROW_NUMBER() OVER (ORDER BY ac.action_count DESC) as rank
			FROM action_counts ac
		)
		SELECT ru.user_id, ru.action_count, ru.rank
		FROM ranked_users ru
		ORDER BY ru.rank
		LIMIT $2
	`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("could not query action leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.ActionLeaderboardEntry
	for rows.Next() {
		e := model.ActionLeaderboardEntry{ActionType: kind}
		if err := rows.Scan(&e.UserID, &e.ActionCount, &e.Position); err != nil {
			return nil, fmt.Errorf("could not scan action leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Coins ---

func (s *Postgres) CoinBalance(ctx context.Context, userID string) (model.CoinBalance, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var b model.CoinBalance
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, total_coins, last_updated
		FROM user_coin_balances
		WHERE user_id = $1
	`, userID).Scan(&b.UserID, &b.TotalCoins, &b.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CoinBalance{}, false, nil
	}
	if err != nil {
		return model.CoinBalance{}, false, fmt.Errorf("could not query coin balance: %w", err)
	}
	return b, true, nil
}

func (s *Postgres) SaveCoinBalance(ctx context.Context, balance model.CoinBalance) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_coin_balances(user_id, total_coins, last_updated)
		VALUES($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET total_coins = $2, last_updated = $3
	`, balance.UserID, balance.TotalCoins, balance.LastUpdated)
	if err != nil {
		return fmt.Errorf("could not upsert coin balance: %w", err)
	}
	return nil
}

// --- Eligibility ---

func (s *Postgres) Eligibility(ctx context.Context, userID string) (model.UserEligibility, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var el model.UserEligibility
	err := s.pool.QueryRow(ctx, `
		SELECT user_id,
			monthly_scans, monthly_shares, monthly_games,
			weekly_scans, weekly_shares, weekly_games,
			gift_eligible, challenge_eligible,
			last_reset_month, last_reset_week
		FROM user_eligibility
		WHERE user_id = $1
	`, userID).Scan(
		&el.UserID,
		&el.MonthlyScans, &el.MonthlyShares, &el.MonthlyGames,
		&el.WeeklyScans, &el.WeeklyShares, &el.WeeklyGames,
		&el.GiftEligible, &el.ChallengeEligible,
		&el.LastResetMonth, &el.LastResetWeek,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserEligibility{}, false, nil
	}
	if err != nil {
		return model.UserEligibility{}, false, fmt.Errorf("could not query eligibility: %w", err)
	}
	return el, true, nil
}

func (s *Postgres) SaveEligibility(ctx context.Context, el model.UserEligibility) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_eligibility(
			user_id,
			monthly_scans, monthly_shares, monthly_games,
			weekly_scans, weekly_shares, weekly_games,
			gift_eligible, challenge_eligible,
			last_reset_month, last_reset_week
		)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id)
		DO UPDATE SET
			monthly_scans = $2, monthly_shares = $3, monthly_games = $4,
			weekly_scans = $5, weekly_shares = $6, weekly_games = $7,
			gift_eligible = $8, challenge_eligible = $9,
			last_reset_month = $10, last_reset_week = $11
	`, el.UserID,
		el.MonthlyScans, el.MonthlyShares, el.MonthlyGames,
		el.WeeklyScans, el.WeeklyShares, el.WeeklyGames,
		el.GiftEligible, el.ChallengeEligible,
		el.LastResetMonth, el.LastResetWeek)
	if err != nil {
		return fmt.Errorf("could not upsert eligibility: %w", err)
	}
	return nil
}

func (s *Postgres) GiftEligibleUsers(ctx context.Context) ([]string, error) {
	return s.eligibleUsers(ctx, "gift_eligible")
}

func (s *Postgres) ChallengeEligibleUsers(ctx context.Context) ([]string, error) {
	return s.eligibleUsers(ctx, "challenge_eligible")
}

func (s *Postgres) eligibleUsers(ctx context.Context, column string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// column vient d'un ensemble fermé interne, jamais de l'extérieur
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT user_id FROM user_eligibility WHERE %s = true ORDER BY user_id
	`, column))
	if err != nil {
		return nil, fmt.Errorf("could not query eligible users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("could not scan eligible user row: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func (s *Postgres) ResetWeeklyCounters(ctx context.Context, weekStart time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE user_eligibility
		SET weekly_scans = 0, weekly_shares = 0, weekly_games = 0,
			challenge_eligible = false, last_reset_week = $1
	`, weekStart)
	if err != nil {
		return fmt.Errorf("could not reset weekly counters: %w", err)
	}
	return nil
}

func (s *Postgres) ResetMonthlyCounters(ctx context.Context, monthStart time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE user_eligibility
		SET monthly_scans = 0, monthly_shares = 0, monthly_games = 0,
			gift_eligible = false, last_reset_month = $1
	`, monthStart)
	if err != nil {
		return fmt.Errorf("could not reset monthly counters: %w", err)
	}
	return nil
}

// --- Leaderboard ---

func (s *Postgres) LeaderboardEntry(ctx context.Context, userID string) (model.LeaderboardEntry, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var e model.LeaderboardEntry
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, total_score, COALESCE(position, 0), last_updated
		FROM leaderboard
		WHERE user_id = $1
	`, userID).Scan(&e.UserID, &e.TotalScore, &e.Position, &e.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return model.LeaderboardEntry{}, false, fmt.Errorf("could not query leaderboard entry: %w", err)
	}
	return e, true, nil
}

func (s *Postgres) AllLeaderboardEntries(ctx context.Context) ([]model.LeaderboardEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT user_id, total_score, COALESCE(position, 0), last_updated
		FROM leaderboard
		ORDER BY CASE WHEN position IS NULL OR position = 0 THEN 1 ELSE 0 END, position
	`)
	if err != nil {
		return nil, fmt.Errorf("could not query leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboardRows(rows)
}

// SaveLeaderboardEntries réécrit les positions dans une transaction:
// les lecteurs voient l'ancien classement ou le nouveau, jamais un mélange
func (s *Postgres) SaveLeaderboardEntries(ctx context.Context, entries []model.LeaderboardEntry) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin leaderboard transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO leaderboard(user_id, total_score, position, last_updated)
			VALUES($1, $2, $3, $4)
			ON CONFLICT (user_id)
			DO UPDATE SET total_score = $2, position = $3, last_updated = $4
		`, e.UserID, e.TotalScore, e.Position, e.LastUpdated)
		if err != nil {
			return fmt.Errorf("could not upsert leaderboard entry: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Postgres) ListLeaderboard(ctx context.Context, limit, offset int) ([]model.LeaderboardEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT user_id, total_score, position, last_updated
		FROM leaderboard
		WHERE position > 0
		ORDER BY position
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("could not query leaderboard page: %w", err)
	}
	defer rows.Close()
	return scanLeaderboardRows(rows)
}

func (s *Postgres) LeaderboardStats(ctx context.Context) (model.LeaderboardStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var stats model.LeaderboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(total_score), 0), COALESCE(MAX(total_score), 0)
		FROM leaderboard
	`).Scan(&stats.TotalUsers, &stats.AverageScore, &stats.TopScore)
	if err != nil {
		return model.LeaderboardStats{}, fmt.Errorf("could not query leaderboard stats: %w", err)
	}
	return stats, nil
}

func (s *Postgres) ResetLeaderboard(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM leaderboard`); err != nil {
		return fmt.Errorf("could not reset leaderboard: %w", err)
	}
	return nil
}

func (s *Postgres) ChallengeBonus(ctx context.Context, userID string, includePending bool) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var bonus int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(c.points), 0)
		FROM user_challenges uc
		INNER JOIN challenges c ON uc.challenge_id = c.id
		WHERE uc.user_id = $1 AND (uc.completed = true OR $2)
	`, userID, includePending).Scan(&bonus)
	if err != nil {
		return 0, fmt.Errorf("could not query challenge bonus: %w", err)
	}
	return bonus, nil
}

func scanLeaderboardRows(rows pgx.Rows) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalScore, &e.Position, &e.LastUpdated); err != nil {
			return nil, fmt.Errorf("could not scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Users ---

func (s *Postgres) CreateUser(ctx context.Context, user model.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("could not encode user preferences: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users(id, email, name, picture, role, auth0_id, is_active, preferences, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Email, user.Name, user.Picture, string(user.Role), user.Auth0ID,
		user.IsActive, prefs, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (s *Postgres) UserByID(ctx context.Context, id string) (model.User, bool, error) {
	return s.userByColumn(ctx, "id", id)
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	return s.userByColumn(ctx, "email", email)
}

func (s *Postgres) UserByAuth0ID(ctx context.Context, auth0ID string) (model.User, bool, error) {
	return s.userByColumn(ctx, "auth0_id", auth0ID)
}

func (s *Postgres) userByColumn(ctx context.Context, column, value string) (model.User, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, email, name, COALESCE(picture, ''), role, auth0_id, is_active,
			preferences, last_login_at, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column), value)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("could not query user: %w", err)
	}
	return u, true, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, user model.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return fmt.Errorf("could not encode user preferences: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, picture = $4, role = $5, is_active = $6,
			preferences = $7, last_login_at = $8, updated_at = $9
		WHERE id = $1
	`, user.ID, user.Email, user.Name, user.Picture, string(user.Role),
		user.IsActive, prefs, user.LastLoginAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not update user: %w", err)
	}
	return nil
}

func (s *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, email, name, COALESCE(picture, ''), role, auth0_id, is_active,
			preferences, last_login_at, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var role string
	var prefs []byte
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &role, &u.Auth0ID,
		&u.IsActive, &prefs, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.UserRole(role)
	if len(prefs) > 0 {
		_ = json.Unmarshal(prefs, &u.Preferences)
	}
	return u, nil
}

// --- Tenants ---

func (s *Postgres) CreateTenant(ctx context.Context, tenant model.Tenant) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	settings, err := json.Marshal(tenant.Settings)
	if err != nil {
		return fmt.Errorf("could not encode tenant settings: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO tenants(id, email, name, picture, role, auth0_id,
			organization_name, organization_id, is_active, settings, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, tenant.ID, tenant.Email, tenant.Name, tenant.Picture, string(tenant.Role), tenant.Auth0ID,
		tenant.OrganizationName, tenant.OrganizationID, tenant.IsActive, settings,
		tenant.CreatedAt, tenant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert tenant: %w", err)
	}
	return nil
}

func (s *Postgres) TenantByID(ctx context.Context, id string) (model.Tenant, bool, error) {
	return s.tenantByColumn(ctx, "id", id)
}

func (s *Postgres) TenantByAuth0ID(ctx context.Context, auth0ID string) (model.Tenant, bool, error) {
	return s.tenantByColumn(ctx, "auth0_id", auth0ID)
}

func (s *Postgres) tenantByColumn(ctx context.Context, column, value string) (model.Tenant, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var t model.Tenant
	var role string
	var settings []byte
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, email, name, COALESCE(picture, ''), role, auth0_id,
			organization_name, organization_id, is_active, settings,
			last_login_at, created_at, updated_at
		FROM tenants
		WHERE %s = $1
	`, column), value).Scan(&t.ID, &t.Email, &t.Name, &t.Picture, &role, &t.Auth0ID,
		&t.OrganizationName, &t.OrganizationID, &t.IsActive, &settings,
		&t.LastLoginAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Tenant{}, false, nil
	}
	if err != nil {
		return model.Tenant{}, false, fmt.Errorf("could not query tenant: %w", err)
	}
	t.Role = model.TenantRole(role)
	if len(settings) > 0 {
		_ = json.Unmarshal(settings, &t.Settings)
	}
	return t, true, nil
}

func (s *Postgres) UpdateTenant(ctx context.Context, tenant model.Tenant) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	settings, err := json.Marshal(tenant.Settings)
	if err != nil {
		return fmt.Errorf("could not encode tenant settings: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE tenants
		SET email = $2, name = $3, picture = $4, role = $5,
			organization_name = $6, is_active = $7, settings = $8,
			last_login_at = $9, updated_at = $10
		WHERE id = $1
	`, tenant.ID, tenant.Email, tenant.Name, tenant.Picture, string(tenant.Role),
		tenant.OrganizationName, tenant.IsActive, settings, tenant.LastLoginAt, tenant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not update tenant: %w", err)
	}
	return nil
}

// --- Gifts ---

func (s *Postgres) CreateGift(ctx context.Context, gift model.Gift) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO gifts(id, name, description, value, category, image_url,
			is_active, created_by, organization_id, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, gift.ID, gift.Name, gift.Description, gift.Value, gift.Category, gift.ImageURL,
		gift.IsActive, gift.CreatedBy, gift.OrganizationID, gift.CreatedAt, gift.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert gift: %w", err)
	}
	return nil
}

func (s *Postgres) GiftByID(ctx context.Context, id string) (model.Gift, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var g model.Gift
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, value, category, COALESCE(image_url, ''),
			is_active, created_by, organization_id, created_at, updated_at
		FROM gifts
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Description, &g.Value, &g.Category, &g.ImageURL,
		&g.IsActive, &g.CreatedBy, &g.OrganizationID, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Gift{}, false, nil
	}
	if err != nil {
		return model.Gift{}, false, fmt.Errorf("could not query gift: %w", err)
	}
	return g, true, nil
}

func (s *Postgres) UpdateGift(ctx context.Context, gift model.Gift) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE gifts
		SET name = $2, description = $3, value = $4, category = $5,
			image_url = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`, gift.ID, gift.Name, gift.Description, gift.Value, gift.Category,
		gift.ImageURL, gift.IsActive, gift.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not update gift: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteGift(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM gifts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("could not delete gift: %w", err)
	}
	return nil
}

func (s *Postgres) GiftsByOrganization(ctx context.Context, orgID string) ([]model.Gift, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, value, category, COALESCE(image_url, ''),
			is_active, created_by, organization_id, created_at, updated_at
		FROM gifts
		WHERE organization_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("could not query gifts: %w", err)
	}
	defer rows.Close()

	gifts := []model.Gift{}
	for rows.Next() {
		var g model.Gift
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Value, &g.Category, &g.ImageURL,
			&g.IsActive, &g.CreatedBy, &g.OrganizationID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("could not scan gift row: %w", err)
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// --- Challenges ---

func (s *Postgres) CreateChallenge(ctx context.Context, ch model.Challenge) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO challenges(id, title, description, type, difficulty, points,
			start_date, end_date, is_active, rules, created_by, organization_id,
			created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, ch.ID, ch.Title, ch.Description, string(ch.Type), string(ch.Difficulty), ch.Points,
		ch.StartDate, ch.EndDate, ch.IsActive, pq.Array(ch.Rules), ch.CreatedBy,
		ch.OrganizationID, ch.CreatedAt, ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not insert challenge: %w", err)
	}
	return nil
}

func (s *Postgres) ChallengeByID(ctx context.Context, id string) (model.Challenge, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, type, difficulty, points,
			start_date, end_date, is_active, rules, created_by, organization_id,
			created_at, updated_at
		FROM challenges
		WHERE id = $1
	`, id)

	ch, err := scanChallenge(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Challenge{}, false, nil
	}
	if err != nil {
		return model.Challenge{}, false, fmt.Errorf("could not query challenge: %w", err)
	}
	return ch, true, nil
}

func (s *Postgres) UpdateChallenge(ctx context.Context, ch model.Challenge) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE challenges
		SET title = $2, description = $3, type = $4, difficulty = $5, points = $6,
			start_date = $7, end_date = $8, is_active = $9, rules = $10, updated_at = $11
		WHERE id = $1
	`, ch.ID, ch.Title, ch.Description, string(ch.Type), string(ch.Difficulty), ch.Points,
		ch.StartDate, ch.EndDate, ch.IsActive, pq.Array(ch.Rules), ch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not update challenge: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteChallenge(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id); err != nil {
		return fmt.Errorf("could not delete challenge: %w", err)
	}
	return nil
}

func (s *Postgres) ChallengesByOrganization(ctx context.Context, orgID string) ([]model.Challenge, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, type, difficulty, points,
			start_date, end_date, is_active, rules, created_by, organization_id,
			created_at, updated_at
		FROM challenges
		WHERE organization_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("could not query challenges: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan challenge row: %w", err)
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

func scanChallenge(row pgx.Row) (model.Challenge, error) {
	var ch model.Challenge
	var kind, difficulty string
	err := row.Scan(&ch.ID, &ch.Title, &ch.Description, &kind, &difficulty, &ch.Points,
		&ch.StartDate, &ch.EndDate, &ch.IsActive, pq.Array(&ch.Rules), &ch.CreatedBy,
		&ch.OrganizationID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return model.Challenge{}, err
	}
	ch.Type = model.ChallengeType(kind)
	ch.Difficulty = model.ChallengeDifficulty(difficulty)
	return ch, nil
}

func (s *Postgres) SaveUserChallenge(ctx context.Context, uc model.UserChallenge) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_challenges(id, user_id, challenge_id, completed, completed_at, created_at)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET completed = $4, completed_at = $5
	`, uc.ID, uc.UserID, uc.ChallengeID, uc.Completed, uc.CompletedAt, uc.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not upsert user challenge: %w", err)
	}
	return nil
}

func (s *Postgres) UserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, challenge_id, completed, completed_at, created_at
		FROM user_challenges
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query user challenges: %w", err)
	}
	defer rows.Close()

	list := []model.UserChallenge{}
	for rows.Next() {
		var uc model.UserChallenge
		if err := rows.Scan(&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.Completed,
			&uc.CompletedAt, &uc.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan user challenge row: %w", err)
		}
		list = append(list, uc)
	}
	return list, rows.Err()
}
