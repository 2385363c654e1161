package ledger

import (
	"sort"

	"borrowlend/core"
	"borrowlend/pkg/number"

	"github.com/holiman/uint256"
)

type balanceKey struct {
	userID  string
	assetID string
	kind    core.BalanceKind
}

func depositKey(userID, assetID string) balanceKey {
	return balanceKey{userID: userID, assetID: assetID, kind: core.BalanceKindDeposit}
}

func borrowKey(userID, assetID string) balanceKey {
	return balanceKey{userID: userID, assetID: assetID, kind: core.BalanceKindBorrow}
}

// state balance mappings, values are replaced and never mutated in place
type state struct {
	balances map[balanceKey]*uint256.Int
}

func newState() *state {
	return &state{
		balances: map[balanceKey]*uint256.Int{},
	}
}

func (s *state) get(k balanceKey) *uint256.Int {
	if v, ok := s.balances[k]; ok {
		return v
	}

	return number.Zero()
}

func (s *state) set(k balanceKey, v *uint256.Int) {
	if v == nil || v.IsZero() {
		delete(s.balances, k)
		return
	}

	s.balances[k] = v
}

func (s *state) load(balances []*core.Balance) error {
	for _, b := range balances {
		v, err := b.Value()
		if err != nil {
			return err
		}

		s.set(balanceKey{userID: b.UserID, assetID: b.AssetID, kind: b.Kind}, v)
	}

	return nil
}

// accounts users holding at least one non-zero balance, sorted
func (s *state) accounts() []string {
	set := map[string]bool{}
	for k := range s.balances {
		set[k.userID] = true
	}

	users := make([]string, 0, len(set))
	for user := range set {
		users = append(users, user)
	}
	sort.Strings(users)

	return users
}

func (s *state) account(userID string) *core.AccountBalances {
	b := &core.AccountBalances{
		UserID:   userID,
		Native:   number.Zero(),
		Deposits: map[string]*uint256.Int{},
		Borrows:  map[string]*uint256.Int{},
	}

	for k, v := range s.balances {
		if k.userID != userID {
			continue
		}

		switch {
		case k.assetID == core.NativeAssetID && k.kind == core.BalanceKindDeposit:
			b.Native = number.Clone(v)
		case k.kind == core.BalanceKindDeposit:
			b.Deposits[k.assetID] = number.Clone(v)
		case k.kind == core.BalanceKindBorrow:
			b.Borrows[k.assetID] = number.Clone(v)
		}
	}

	return b
}
