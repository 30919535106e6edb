package ledger

import (
	"encoding/json"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/hexutil"
)

// Delegation is a bounded transfer permission over one asset class, granted
// by the account owner to a non-owning delegate.
type Delegation struct {
	Delegate common.Address `json:"delegate"`
	Amount   hexutil.Uint64 `json:"amount"`
}

func (d *Delegation) Clone() *Delegation {
	if d == nil {
		return nil
	}
	cpy := *d
	return &cpy
}

// Record is an opaque data payload stored at a derived address. Opening a
// record moves a storage reservation out of the payer's balance; closing it
// refunds the reservation.
type Record struct {
	Owner       common.Address `json:"owner"`
	Payload     hexutil.Bytes  `json:"payload"`
	Reservation hexutil.Uint64 `json:"reservation"`
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cpy := *r
	cpy.Payload = common.CopyBytes(r.Payload)
	return &cpy
}

// AccountData is the persisted representation of an account. These objects
// are stored in the store keyed by address.
type AccountData struct {
	Address     common.Address                  `json:"address"`
	Balance     hexutil.Uint64                  `json:"balance"`
	Tokens      map[common.Hash]hexutil.Uint64  `json:"tokens,omitempty"`
	Delegations map[common.Hash]*Delegation     `json:"delegations,omitempty"`
	Record      *Record                         `json:"record,omitempty"`
}

// Account wraps AccountData with journaled mutation: every state change is
// recorded in the ledger journal so it can be undone on rollback.
type Account struct {
	data    *AccountData
	journal *journal
	dirty   bool
}

func NewAccount(address common.Address, data *AccountData, jrn *journal) *Account {
	if data == nil {
		data = &AccountData{Address: address}
	}
	if data.Tokens == nil {
		data.Tokens = make(map[common.Hash]hexutil.Uint64)
	}
	if data.Delegations == nil {
		data.Delegations = make(map[common.Hash]*Delegation)
	}
	return &Account{data: data, journal: jrn}
}

func (a *Account) GetAddress() common.Address { return a.data.Address }
func (a *Account) GetBalance() uint64         { return uint64(a.data.Balance) }
func (a *Account) IsDirty() bool              { return a.dirty }

func (a *Account) SetBalance(balance uint64) {
	a.journal.push(newBalanceLog(a, balance))
	a.setBalance(balance)
}

func (a *Account) setBalance(balance uint64) {
	a.data.Balance = hexutil.Uint64(balance)
	a.dirty = true
}

// GetTokenBalance returns the account's base-unit balance of the given asset class.
func (a *Account) GetTokenBalance(asset common.Hash) uint64 {
	return uint64(a.data.Tokens[asset])
}

func (a *Account) SetTokenBalance(asset common.Hash, balance uint64) {
	a.journal.push(newTokenBalanceLog(a, asset, balance))
	a.setTokenBalance(asset, balance)
}

func (a *Account) setTokenBalance(asset common.Hash, balance uint64) {
	if balance == 0 {
		delete(a.data.Tokens, asset)
	} else {
		a.data.Tokens[asset] = hexutil.Uint64(balance)
	}
	a.dirty = true
}

// GetDelegation returns the outstanding transfer delegation for the asset
// class, or nil when none has been granted.
func (a *Account) GetDelegation(asset common.Hash) *Delegation {
	return a.data.Delegations[asset]
}

func (a *Account) SetDelegation(asset common.Hash, d *Delegation) {
	a.journal.push(newDelegationLog(a, asset, d))
	a.setDelegation(asset, d)
}

func (a *Account) setDelegation(asset common.Hash, d *Delegation) {
	if d == nil {
		delete(a.data.Delegations, asset)
	} else {
		a.data.Delegations[asset] = d
	}
	a.dirty = true
}

// GetRecord returns the record payload stored at this account, or nil.
func (a *Account) GetRecord() *Record {
	return a.data.Record
}

func (a *Account) SetRecord(r *Record) {
	a.journal.push(newRecordLog(a, r))
	a.setRecord(r)
}

func (a *Account) setRecord(r *Record) {
	a.data.Record = r
	a.dirty = true
}

// IsEmpty reports whether the account carries no state worth persisting.
func (a *Account) IsEmpty() bool {
	return a.data.Balance == 0 && len(a.data.Tokens) == 0 && len(a.data.Delegations) == 0 && a.data.Record == nil
}

func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.data)
}
