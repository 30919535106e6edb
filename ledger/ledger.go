package ledger

import (
	"encoding/json"
	"errors"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/hexutil"
	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/store"
)

const (
	// storage reservation pricing for opened records
	storageCostPerByte = uint64(10)
	recordOverhead     = 8
)

var (
	ErrUnauthorized        = errors.New("signer does not match the required identity")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrExceedDelegation    = errors.New("transfer amount exceeds the delegated allowance")
	ErrBalanceOverflow     = errors.New("balance overflows an unsigned 64 bit amount")
	ErrAssetExist          = errors.New("asset class already registered")
	ErrAssetNotExist       = errors.New("asset class is not registered")
	ErrRecordExist         = errors.New("a record already exists at this address")
	ErrRecordNotExist      = errors.New("no record exists at this address")
)

var (
	acctPrefix  = []byte("acct-")
	assetPrefix = []byte("asset-")
)

// Ledger maintains account state with journaled mutation. Every operation
// runs against the cached accounts; Snapshot/RevertToSnapshot give all-or-
// nothing semantics for multi-step operations, and Save flushes the dirty
// accounts to the store.
type Ledger struct {
	db store.Database

	accountCache map[common.Address]*Account
	assetCache   map[common.Hash]*Asset

	journal *journal
}

func NewLedger(db store.Database) *Ledger {
	if db == nil {
		panic("ledger.NewLedger is called without a database")
	}
	return &Ledger{
		db:           db,
		accountCache: make(map[common.Address]*Account),
		assetCache:   make(map[common.Hash]*Asset),
		journal:      newJournal(),
	}
}

// GetAccount loads an account from cache or the store, or creates a fresh one
// if it does not exist yet.
func (l *Ledger) GetAccount(address common.Address) *Account {
	cached := l.accountCache[address]
	if cached == nil {
		data, err := l.loadAccountData(address)
		if err != nil {
			log.Errorf("load account[%s] fail: %v", address.String(), err)
			panic(err)
		}
		cached = NewAccount(address, data, l.journal)
		l.accountCache[address] = cached
	}
	return cached
}

func (l *Ledger) loadAccountData(address common.Address) (*AccountData, error) {
	raw, err := l.db.Get(acctKey(address))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	data := new(AccountData)
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, err
	}
	return data, nil
}

// IsExist reports whether the given account address exists in the store.
func (l *Ledger) IsExist(address common.Address) bool {
	if cached := l.accountCache[address]; cached != nil {
		return !cached.IsEmpty()
	}
	raw, err := l.db.Get(acctKey(address))
	return err == nil && raw != nil
}

// Snapshot returns an identifier for the current revision of the state.
func (l *Ledger) Snapshot() int {
	return l.journal.Snapshot()
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (l *Ledger) RevertToSnapshot(revid int) {
	l.journal.RevertToSnapshot(revid)
}

// Run executes fn against a snapshot and reverts every change fn made if it
// returns an error. It is the atomic transaction wrapper for multi-step
// operations: all steps complete, or none are observable.
func (l *Ledger) Run(fn func() error) error {
	snapshot := l.Snapshot()
	if err := fn(); err != nil {
		l.RevertToSnapshot(snapshot)
		return err
	}
	return nil
}

// Save writes dirty accounts into the store and resets the journal. Changes
// flushed by Save can no longer be reverted.
func (l *Ledger) Save() error {
	for _, account := range l.accountCache {
		if !account.IsDirty() {
			continue
		}
		if account.IsEmpty() {
			if err := l.db.Delete(acctKey(account.GetAddress())); err != nil {
				return err
			}
			account.dirty = false
			continue
		}
		raw, err := account.MarshalJSON()
		if err != nil {
			return err
		}
		if err := l.db.Put(acctKey(account.GetAddress()), raw); err != nil {
			log.Errorf("save account to db fail: %v", err)
			return err
		}
		account.dirty = false
	}
	l.journal.clear()
	return nil
}

// Reset drops all cached state so the ledger reloads from the store.
func (l *Ledger) Reset() {
	l.accountCache = make(map[common.Address]*Account)
	l.assetCache = make(map[common.Hash]*Asset)
	l.journal.clear()
}

//
// asset registry
//

// RegisterAsset records a new asset class. The registry is append-only and is
// not journaled; classes are registered at initialization time.
func (l *Ledger) RegisterAsset(code common.Hash, decimals uint32) (*Asset, error) {
	if _, err := l.GetAsset(code); err == nil {
		return nil, ErrAssetExist
	}
	asset := &Asset{Code: code, Decimals: hexutil.Uint64(decimals)}
	if err := asset.VerifyAsset(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(asset)
	if err != nil {
		return nil, err
	}
	if err := l.db.Put(assetKey(code), raw); err != nil {
		return nil, err
	}
	l.assetCache[code] = asset
	return asset, nil
}

// GetAsset returns the registered asset class for code.
func (l *Ledger) GetAsset(code common.Hash) (*Asset, error) {
	if cached := l.assetCache[code]; cached != nil {
		return cached, nil
	}
	raw, err := l.db.Get(assetKey(code))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrAssetNotExist
	}
	asset := new(Asset)
	if err := json.Unmarshal(raw, asset); err != nil {
		return nil, err
	}
	l.assetCache[code] = asset
	return asset, nil
}

//
// base unit payments
//

// Credit adds base units to an account. It is used to fund accounts at
// initialization time; the mutation is journaled like any other.
func (l *Ledger) Credit(address common.Address, amount uint64) error {
	account := l.GetAccount(address)
	newBalance, err := safeAdd(account.GetBalance(), amount)
	if err != nil {
		return err
	}
	account.SetBalance(newBalance)
	return nil
}

// Transfer moves base units from one account to another.
func (l *Ledger) Transfer(from, to common.Address, amount uint64) error {
	fromAcc := l.GetAccount(from)
	if fromAcc.GetBalance() < amount {
		return ErrInsufficientBalance
	}
	toAcc := l.GetAccount(to)
	newBalance, err := safeAdd(toAcc.GetBalance(), amount)
	if err != nil {
		return err
	}
	fromAcc.SetBalance(fromAcc.GetBalance() - amount)
	toAcc.SetBalance(newBalance)
	return nil
}

//
// asset units
//

// MintToken issues base units of an asset class to an account.
func (l *Ledger) MintToken(code common.Hash, to common.Address, amount uint64) error {
	if _, err := l.GetAsset(code); err != nil {
		return err
	}
	account := l.GetAccount(to)
	newBalance, err := safeAdd(account.GetTokenBalance(code), amount)
	if err != nil {
		return err
	}
	account.SetTokenBalance(code, newBalance)
	return nil
}

// TokenBalance returns the base-unit holding of an asset class.
func (l *Ledger) TokenBalance(code common.Hash, address common.Address) uint64 {
	return l.GetAccount(address).GetTokenBalance(code)
}

// TransferToken moves asset units under the owner's own authority. caller
// must be the owner.
func (l *Ledger) TransferToken(code common.Hash, from, to common.Address, amount uint64, caller common.Address) error {
	if caller != from {
		return ErrUnauthorized
	}
	return l.moveToken(code, from, to, amount)
}

// Approve grants a bounded transfer delegation over the owner's holding of an
// asset class. An existing delegation for the same class is replaced.
func (l *Ledger) Approve(code common.Hash, owner, delegate common.Address, amount uint64) error {
	if _, err := l.GetAsset(code); err != nil {
		return err
	}
	l.GetAccount(owner).SetDelegation(code, &Delegation{Delegate: delegate, Amount: hexutil.Uint64(amount)})
	return nil
}

// Revoke removes the outstanding delegation over the owner's holding of an
// asset class, if any.
func (l *Ledger) Revoke(code common.Hash, owner common.Address) {
	account := l.GetAccount(owner)
	if account.GetDelegation(code) != nil {
		account.SetDelegation(code, nil)
	}
}

// DelegationOf returns the outstanding delegation over an asset class, or nil.
func (l *Ledger) DelegationOf(code common.Hash, owner common.Address) *Delegation {
	return l.GetAccount(owner).GetDelegation(code)
}

// TransferTokenFrom moves asset units out of the owner's holding under a
// delegated permission. The remaining allowance is decremented, and the
// delegation is cleared once exhausted.
func (l *Ledger) TransferTokenFrom(code common.Hash, owner, to common.Address, amount uint64, delegate common.Address) error {
	ownerAcc := l.GetAccount(owner)
	d := ownerAcc.GetDelegation(code)
	if d == nil || d.Delegate != delegate {
		return ErrUnauthorized
	}
	if uint64(d.Amount) < amount {
		return ErrExceedDelegation
	}
	if err := l.moveToken(code, owner, to, amount); err != nil {
		return err
	}
	remaining := uint64(d.Amount) - amount
	if remaining == 0 {
		ownerAcc.SetDelegation(code, nil)
	} else {
		ownerAcc.SetDelegation(code, &Delegation{Delegate: delegate, Amount: hexutil.Uint64(remaining)})
	}
	return nil
}

func (l *Ledger) moveToken(code common.Hash, from, to common.Address, amount uint64) error {
	if _, err := l.GetAsset(code); err != nil {
		return err
	}
	fromAcc := l.GetAccount(from)
	if fromAcc.GetTokenBalance(code) < amount {
		return ErrInsufficientBalance
	}
	toAcc := l.GetAccount(to)
	newBalance, err := safeAdd(toAcc.GetTokenBalance(code), amount)
	if err != nil {
		return err
	}
	fromAcc.SetTokenBalance(code, fromAcc.GetTokenBalance(code)-amount)
	toAcc.SetTokenBalance(code, newBalance)
	return nil
}

//
// records
//

// ReservationFor prices the storage reservation for a record payload.
func ReservationFor(payloadSize int) uint64 {
	return (uint64(payloadSize) + recordOverhead) * storageCostPerByte
}

// OpenRecord stores a payload at a derived address, moving the storage
// reservation out of the payer's balance. It fails if a record already lives
// at the address.
func (l *Ledger) OpenRecord(address, owner common.Address, payload []byte, payer common.Address) error {
	account := l.GetAccount(address)
	if account.GetRecord() != nil {
		return ErrRecordExist
	}
	reservation := ReservationFor(len(payload))
	payerAcc := l.GetAccount(payer)
	if payerAcc.GetBalance() < reservation {
		return ErrInsufficientBalance
	}
	payerAcc.SetBalance(payerAcc.GetBalance() - reservation)
	account.SetRecord(&Record{
		Owner:       owner,
		Payload:     common.CopyBytes(payload),
		Reservation: hexutil.Uint64(reservation),
	})
	return nil
}

// GetRecord returns the record stored at address.
func (l *Ledger) GetRecord(address common.Address) (*Record, error) {
	r := l.GetAccount(address).GetRecord()
	if r == nil {
		return nil, ErrRecordNotExist
	}
	return r, nil
}

// UpdateRecord replaces the payload of an existing record. The reservation is
// unchanged; payloads of records opened by this ledger are fixed-size.
func (l *Ledger) UpdateRecord(address common.Address, payload []byte) error {
	account := l.GetAccount(address)
	old := account.GetRecord()
	if old == nil {
		return ErrRecordNotExist
	}
	account.SetRecord(&Record{
		Owner:       old.Owner,
		Payload:     common.CopyBytes(payload),
		Reservation: old.Reservation,
	})
	return nil
}

// CloseRecord removes the record at address and refunds its storage
// reservation to refundTo.
func (l *Ledger) CloseRecord(address, refundTo common.Address) error {
	account := l.GetAccount(address)
	r := account.GetRecord()
	if r == nil {
		return ErrRecordNotExist
	}
	refundAcc := l.GetAccount(refundTo)
	newBalance, err := safeAdd(refundAcc.GetBalance(), uint64(r.Reservation))
	if err != nil {
		return err
	}
	account.SetRecord(nil)
	refundAcc.SetBalance(newBalance)
	return nil
}

func safeAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrBalanceOverflow
	}
	return sum, nil
}

func acctKey(address common.Address) []byte {
	return append(acctPrefix, address.Bytes()...)
}

func assetKey(code common.Hash) []byte {
	return append(assetPrefix, code.Bytes()...)
}
