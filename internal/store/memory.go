package store

import (
	"context"
	"sort"
	"sync"
	"time"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
)

// Memory implémente Store en mémoire. Sert les tests et le mode dev sans
// Postgres. Un RWMutex protège les maps; la sérialisation par utilisateur
// reste la responsabilité de l'orchestrateur.
type Memory struct {
	mu             sync.RWMutex
	actions        []model.UserAction
	balances       map[string]model.CoinBalance
	eligibility    map[string]model.UserEligibility
	leaderboard    map[string]model.LeaderboardEntry
	users          map[string]model.User
	tenants        map[string]model.Tenant
	gifts          map[string]model.Gift
	challenges     map[string]model.Challenge
	userChallenges map[string][]model.UserChallenge
}

func NewMemory() *Memory {
	return &Memory{
		balances:       make(map[string]model.CoinBalance),
		eligibility:    make(map[string]model.UserEligibility),
		leaderboard:    make(map[string]model.LeaderboardEntry),
		users:          make(map[string]model.User),
		tenants:        make(map[string]model.Tenant),
		gifts:          make(map[string]model.Gift),
		challenges:     make(map[string]model.Challenge),
		userChallenges: make(map[string][]model.UserChallenge),
	}
}

// --- Actions ---

func (m *Memory) AppendAction(ctx context.Context, action model.UserAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return nil
}

func (m *Memory) RecentActions(ctx context.Context, userID string, limit int) ([]model.UserAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.UserAction
	// Parcours en ordre inverse: les plus récentes d'abord
	for i := len(m.actions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.actions[i].UserID == userID {
			out = append(out, m.actions[i])
		}
	}
	return out, nil
}

func (m *Memory) TopByAction(ctx context.Context, kind model.ActionType, limit int) ([]model.ActionLeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	var order []string
	for _, a := range m.actions {
		if a.Type != kind {
			continue
		}
		if _, seen := counts[a.UserID]; !seen {
			order = append(order, a.UserID)
		}
		counts[a.UserID]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	entries := make([]model.ActionLeaderboardEntry, 0, len(order))
	for i, userID := range order {
		entries = append(entries, model.ActionLeaderboardEntry{
			UserID:      userID,
			ActionType:  kind,
			ActionCount: counts[userID],
			Position:    i + 1,
		})
	}
	return entries, nil
}

// --- Coins ---

func (m *Memory) CoinBalance(ctx context.Context, userID string) (model.CoinBalance, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.balances[userID]
	return b, ok, nil
}

func (m *Memory) SaveCoinBalance(ctx context.Context, balance model.CoinBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balance.UserID] = balance
	return nil
}

// --- Eligibility ---

func (m *Memory) Eligibility(ctx context.Context, userID string) (model.UserEligibility, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	el, ok := m.eligibility[userID]
	return el, ok, nil
}

func (m *Memory) SaveEligibility(ctx context.Context, el model.UserEligibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eligibility[el.UserID] = el
	return nil
}

func (m *Memory) GiftEligibleUsers(ctx context.Context) ([]string, error) {
	return m.eligibleUsers(func(el model.UserEligibility) bool { return el.GiftEligible })
}

func (m *Memory) ChallengeEligibleUsers(ctx context.Context) ([]string, error) {
	return m.eligibleUsers(func(el model.UserEligibility) bool { return el.ChallengeEligible })
}

func (m *Memory) eligibleUsers(match func(model.UserEligibility) bool) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := []string{}
	for id, el := range m.eligibility {
		if match(el) {
			users = append(users, id)
		}
	}
	sort.Strings(users)
	return users, nil
}

func (m *Memory) ResetWeeklyCounters(ctx context.Context, weekStart time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, el := range m.eligibility {
		el.WeeklyScans = 0
		el.WeeklyShares = 0
		el.WeeklyGames = 0
		el.ChallengeEligible = false
		el.LastResetWeek = weekStart
		m.eligibility[id] = el
	}
	return nil
}

func (m *Memory) ResetMonthlyCounters(ctx context.Context, monthStart time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, el := range m.eligibility {
		el.MonthlyScans = 0
		el.MonthlyShares = 0
		el.MonthlyGames = 0
		el.GiftEligible = false
		el.LastResetMonth = monthStart
		m.eligibility[id] = el
	}
	return nil
}

// --- Leaderboard ---

func (m *Memory) LeaderboardEntry(ctx context.Context, userID string) (model.LeaderboardEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.leaderboard[userID]
	return e, ok, nil
}

func (m *Memory) AllLeaderboardEntries(ctx context.Context) ([]model.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]model.LeaderboardEntry, 0, len(m.leaderboard))
	for _, e := range m.leaderboard {
		entries = append(entries, e)
	}
	sortByPosition(entries)
	return entries, nil
}

func (m *Memory) SaveLeaderboardEntries(ctx context.Context, entries []model.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.leaderboard[e.UserID] = e
	}
	return nil
}

func (m *Memory) ListLeaderboard(ctx context.Context, limit, offset int) ([]model.LeaderboardEntry, error) {
	entries, err := m.AllLeaderboardEntries(ctx)
	if err != nil {
		return nil, err
	}
	ranked := entries[:0]
	for _, e := range entries {
		if e.Position > 0 {
			ranked = append(ranked, e)
		}
	}
	if offset >= len(ranked) {
		return []model.LeaderboardEntry{}, nil
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	page := make([]model.LeaderboardEntry, end-offset)
	copy(page, ranked[offset:end])
	return page, nil
}

func (m *Memory) LeaderboardStats(ctx context.Context) (model.LeaderboardStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := model.LeaderboardStats{TotalUsers: len(m.leaderboard)}
	if stats.TotalUsers == 0 {
		return stats, nil
	}
	total := 0
	for _, e := range m.leaderboard {
		total += e.TotalScore
		if e.TotalScore > stats.TopScore {
			stats.TopScore = e.TotalScore
		}
	}
	stats.AverageScore = float64(total) / float64(stats.TotalUsers)
	return stats, nil
}

func (m *Memory) ResetLeaderboard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboard = make(map[string]model.LeaderboardEntry)
	return nil
}

func (m *Memory) ChallengeBonus(ctx context.Context, userID string, includePending bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bonus := 0
	for _, uc := range m.userChallenges[userID] {
		if !uc.Completed && !includePending {
			continue
		}
		if ch, ok := m.challenges[uc.ChallengeID]; ok {
			bonus += ch.Points
		}
	}
	return bonus, nil
}

// --- Users ---

func (m *Memory) CreateUser(ctx context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *Memory) UserByID(ctx context.Context, id string) (model.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	return m.findUser(func(u model.User) bool { return u.Email == email })
}

func (m *Memory) UserByAuth0ID(ctx context.Context, auth0ID string) (model.User, bool, error) {
	return m.findUser(func(u model.User) bool { return u.Auth0ID == auth0ID })
}

func (m *Memory) findUser(match func(model.User) bool) (model.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (m *Memory) UpdateUser(ctx context.Context, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// --- Tenants ---

func (m *Memory) CreateTenant(ctx context.Context, tenant model.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenant.ID] = tenant
	return nil
}

func (m *Memory) TenantByID(ctx context.Context, id string) (model.Tenant, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tenants[id]
	return t, ok, nil
}

func (m *Memory) TenantByAuth0ID(ctx context.Context, auth0ID string) (model.Tenant, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tenants {
		if t.Auth0ID == auth0ID {
			return t, true, nil
		}
	}
	return model.Tenant{}, false, nil
}

func (m *Memory) UpdateTenant(ctx context.Context, tenant model.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenant.ID] = tenant
	return nil
}

// --- Gifts ---

func (m *Memory) CreateGift(ctx context.Context, gift model.Gift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gifts[gift.ID] = gift
	return nil
}

func (m *Memory) GiftByID(ctx context.Context, id string) (model.Gift, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.gifts[id]
	return g, ok, nil
}

func (m *Memory) UpdateGift(ctx context.Context, gift model.Gift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gifts[gift.ID] = gift
	return nil
}

func (m *Memory) DeleteGift(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gifts, id)
	return nil
}

func (m *Memory) GiftsByOrganization(ctx context.Context, orgID string) ([]model.Gift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gifts := []model.Gift{}
	for _, g := range m.gifts {
		if g.OrganizationID == orgID {
			gifts = append(gifts, g)
		}
	}
	sort.Slice(gifts, func(i, j int) bool { return gifts[i].CreatedAt.Before(gifts[j].CreatedAt) })
	return gifts, nil
}

// --- Challenges ---

func (m *Memory) CreateChallenge(ctx context.Context, ch model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[ch.ID] = ch
	return nil
}

func (m *Memory) ChallengeByID(ctx context.Context, id string) (model.Challenge, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.challenges[id]
	return c, ok, nil
}

func (m *Memory) UpdateChallenge(ctx context.Context, ch model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challenges[ch.ID] = ch
	return nil
}

func (m *Memory) DeleteChallenge(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.challenges, id)
	return nil
}

func (m *Memory) ChallengesByOrganization(ctx context.Context, orgID string) ([]model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chs := []model.Challenge{}
	for _, c := range m.challenges {
		if c.OrganizationID == orgID {
			chs = append(chs, c)
		}
	}
	sort.Slice(chs, func(i, j int) bool { return chs[i].CreatedAt.Before(chs[j].CreatedAt) })
	return chs, nil
}

func (m *Memory) SaveUserChallenge(ctx context.Context, uc model.UserChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.userChallenges[uc.UserID]
	for i, existing := range list {
		if existing.ID == uc.ID {
			list[i] = uc
			return nil
		}
	}
	m.userChallenges[uc.UserID] = append(list, uc)
	return nil
}

func (m *Memory) UserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.userChallenges[userID]
	out := make([]model.UserChallenge, len(list))
	copy(out, list)
	return out, nil
}

func sortByPosition(entries []model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Position, entries[j].Position
		if pi == 0 {
			return false
		}
		if pj == 0 {
			return true
		}
		return pi < pj
	})
}
