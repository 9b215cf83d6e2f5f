package memory

import (
	"context"
	"strings"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

type accounts struct{ view }

func (r accounts) Create(ctx context.Context, a user.Account) error {
	if err := r.store.check("accounts.Create", a.ID); err != nil {
		return err
	}
	return r.write(func(st *state) error {
		email := normalizeEmail(a.Email)
		if _, ok := st.accountEmails[email]; ok {
			return user.ErrEmailExists
		}
		a.Email = email
		st.accounts[a.ID] = a
		st.accountEmails[email] = a.ID
		return nil
	})
}

func (r accounts) GetByID(ctx context.Context, id uuid.UUID) (user.Account, error) {
	if err := r.store.check("accounts.GetByID", id); err != nil {
		return user.Account{}, err
	}
	var out user.Account
	err := r.read(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return user.ErrNotFound
		}
		out = a
		return nil
	})
	return out, err
}

func (r accounts) GetByEmail(ctx context.Context, email string) (user.Account, error) {
	if err := r.store.check("accounts.GetByEmail", uuid.Nil); err != nil {
		return user.Account{}, err
	}
	var out user.Account
	err := r.read(func(st *state) error {
		id, ok := st.accountEmails[normalizeEmail(email)]
		if !ok {
			return user.ErrNotFound
		}
		out = st.accounts[id]
		return nil
	})
	return out, err
}

type profiles struct{ view }

func (r profiles) Get(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	if err := r.store.check("users.Get", id); err != nil {
		return user.Profile{}, err
	}
	var out user.Profile
	err := r.read(func(st *state) error {
		p, ok := st.profiles[id]
		if !ok {
			return user.ErrNotFound
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

func (r profiles) ListAll(ctx context.Context) ([]user.Profile, error) {
	if err := r.store.check("users.ListAll", uuid.Nil); err != nil {
		return nil, err
	}
	out := make([]user.Profile, 0)
	err := r.read(func(st *state) error {
		for _, id := range st.profileOrder {
			out = append(out, st.profiles[id].Clone())
		}
		return nil
	})
	return out, err
}

func (r profiles) Patch(ctx context.Context, id uuid.UUID, patch user.ProfilePatch) (user.Profile, error) {
	if err := r.store.check("users.Patch", id); err != nil {
		return user.Profile{}, err
	}
	var out user.Profile
	err := r.write(func(st *state) error {
		now := r.now()
		p, ok := st.profiles[id]
		if !ok {
			p = user.Profile{
				ID:                id,
				TeachingSkills:    []string{},
				LearningInterests: []string{},
				Achievements:      []string{},
				SkillProgress:     map[string]int{},
				CreatedAt:         now,
			}
			st.profileOrder = append(st.profileOrder, id)
		}
		p = p.Apply(patch, now)
		st.profiles[id] = p
		out = p.Clone()
		return nil
	})
	return out, err
}

func (r profiles) AdjustTimeBalance(ctx context.Context, id uuid.UUID, delta int) error {
	if err := r.store.check("users.AdjustTimeBalance", id); err != nil {
		return err
	}
	return r.write(func(st *state) error {
		p, ok := st.profiles[id]
		if !ok {
			return user.ErrNotFound
		}
		p.TimeBalance += delta
		p.CompletedExchanges++
		p.UpdatedAt = r.now()
		st.profiles[id] = p
		return nil
	})
}

type exchanges struct{ view }

func (r exchanges) Create(ctx context.Context, e exchange.Exchange) error {
	if err := r.store.check("exchanges.Create", e.ID); err != nil {
		return err
	}
	return r.write(func(st *state) error {
		if _, ok := st.profiles[e.TeacherID]; !ok {
			return user.ErrNotFound
		}
		if _, ok := st.profiles[e.StudentID]; !ok {
			return user.ErrNotFound
		}
		if _, ok := st.exchanges[e.ID]; !ok {
			st.exchangeOrder = append(st.exchangeOrder, e.ID)
		}
		st.exchanges[e.ID] = e
		return nil
	})
}

func (r exchanges) Get(ctx context.Context, id uuid.UUID) (exchange.Exchange, error) {
	if err := r.store.check("exchanges.Get", id); err != nil {
		return exchange.Exchange{}, err
	}
	var out exchange.Exchange
	err := r.read(func(st *state) error {
		e, ok := st.exchanges[id]
		if !ok {
			return exchange.ErrNotFound
		}
		out = e
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock: transactions already run one at a time.
func (r exchanges) GetForUpdate(ctx context.Context, id uuid.UUID) (exchange.Exchange, error) {
	if err := r.store.check("exchanges.GetForUpdate", id); err != nil {
		return exchange.Exchange{}, err
	}
	return r.Get(ctx, id)
}

func (r exchanges) UpdateStatusIfCurrent(ctx context.Context, t exchange.Transition) (exchange.Exchange, error) {
	if err := r.store.check("exchanges.UpdateStatusIfCurrent", t.ID); err != nil {
		return exchange.Exchange{}, err
	}
	var out exchange.Exchange
	err := r.write(func(st *state) error {
		e, ok := st.exchanges[t.ID]
		if !ok {
			return exchange.ErrNotFound
		}
		updated, err := e.Apply(t)
		if err != nil {
			return err
		}
		st.exchanges[t.ID] = updated
		out = updated
		return nil
	})
	return out, err
}

func (r exchanges) ListForUser(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error) {
	if err := r.store.check("exchanges.ListForUser", userID); err != nil {
		return nil, err
	}
	out := make([]exchange.Exchange, 0)
	err := r.read(func(st *state) error {
		for _, id := range st.exchangeOrder {
			if e := st.exchanges[id]; e.IsParty(userID) {
				out = append(out, e)
			}
		}
		return nil
	})
	exchange.SortNewestFirst(out)
	return out, err
}

type skills struct{ view }

func (r skills) List(ctx context.Context) ([]skill.CatalogEntry, error) {
	return r.filter("skills.List", func(skill.CatalogEntry) bool { return true })
}

func (r skills) ListByCategory(ctx context.Context, category string) ([]skill.CatalogEntry, error) {
	return r.filter("skills.ListByCategory", func(e skill.CatalogEntry) bool { return e.Category == category })
}

func (r skills) Search(ctx context.Context, keyword string) ([]skill.CatalogEntry, error) {
	fold := cases.Fold()
	kw := fold.String(strings.TrimSpace(keyword))
	return r.filter("skills.Search", func(e skill.CatalogEntry) bool {
		return strings.Contains(fold.String(e.Name), kw) || strings.Contains(fold.String(e.Description), kw)
	})
}

func (r skills) filter(op string, keep func(skill.CatalogEntry) bool) ([]skill.CatalogEntry, error) {
	if err := r.store.check(op, uuid.Nil); err != nil {
		return nil, err
	}
	out := make([]skill.CatalogEntry, 0)
	err := r.read(func(st *state) error {
		for i := len(st.skills) - 1; i >= 0; i-- {
			if keep(st.skills[i]) {
				out = append(out, st.skills[i])
			}
		}
		return nil
	})
	return out, err
}
