package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/StorkBison/direct-sell-SC/common"
	"github.com/StorkBison/direct-sell-SC/common/log"
)

var ErrRevisionNotExist = errors.New("revision cannot be reverted")

type ChangeLogType int

const (
	BalanceLog ChangeLogType = iota + 1
	TokenBalanceLog
	DelegationLog
	RecordLog
)

func (t ChangeLogType) String() string {
	switch t {
	case BalanceLog:
		return "BalanceLog"
	case TokenBalanceLog:
		return "TokenBalanceLog"
	case DelegationLog:
		return "DelegationLog"
	case RecordLog:
		return "RecordLog"
	default:
		return fmt.Sprintf("ChangeLogType(%d)", int(t))
	}
}

// ChangeLog records one account mutation so the journal can undo it on
// rollback. Extra carries the asset code for token and delegation logs.
type ChangeLog struct {
	LogType ChangeLogType
	Account *Account
	Extra   common.Hash
	OldVal  interface{}
	NewVal  interface{}
}

func (c *ChangeLog) String() string {
	return fmt.Sprintf("%s{Address: %s, OldVal: %v, NewVal: %v}", c.LogType, c.Account.GetAddress().TerminalString(), c.OldVal, c.NewVal)
}

// Undo reverts the mutation recorded by this change log, without generating
// new change logs.
func (c *ChangeLog) Undo() {
	switch c.LogType {
	case BalanceLog:
		c.Account.setBalance(c.OldVal.(uint64))
	case TokenBalanceLog:
		c.Account.setTokenBalance(c.Extra, c.OldVal.(uint64))
	case DelegationLog:
		d, _ := c.OldVal.(*Delegation)
		c.Account.setDelegation(c.Extra, d)
	case RecordLog:
		r, _ := c.OldVal.(*Record)
		c.Account.setRecord(r)
	default:
		log.Errorf("unknown change log type %d", c.LogType)
		panic(ErrRevisionNotExist)
	}
}

func newBalanceLog(account *Account, newBalance uint64) *ChangeLog {
	return &ChangeLog{
		LogType: BalanceLog,
		Account: account,
		OldVal:  account.GetBalance(),
		NewVal:  newBalance,
	}
}

func newTokenBalanceLog(account *Account, asset common.Hash, newBalance uint64) *ChangeLog {
	return &ChangeLog{
		LogType: TokenBalanceLog,
		Account: account,
		Extra:   asset,
		OldVal:  account.GetTokenBalance(asset),
		NewVal:  newBalance,
	}
}

func newDelegationLog(account *Account, asset common.Hash, d *Delegation) *ChangeLog {
	return &ChangeLog{
		LogType: DelegationLog,
		Account: account,
		Extra:   asset,
		OldVal:  account.GetDelegation(asset).Clone(),
		NewVal:  d,
	}
}

func newRecordLog(account *Account, r *Record) *ChangeLog {
	return &ChangeLog{
		LogType: RecordLog,
		Account: account,
		OldVal:  account.GetRecord().Clone(),
		NewVal:  r,
	}
}

type revision struct {
	id           int
	journalIndex int
}

// journal records change logs during an operation's execution so the whole
// operation can be reverted as one unit.
type journal struct {
	changeLogs     []*ChangeLog
	validRevisions []revision
	nextRevisionId int
}

func newJournal() *journal {
	return &journal{
		changeLogs: make([]*ChangeLog, 0),
	}
}

func (j *journal) push(log *ChangeLog) {
	j.changeLogs = append(j.changeLogs, log)
}

// Snapshot returns an identifier for the current revision of the change log.
func (j *journal) Snapshot() int {
	id := j.nextRevisionId
	j.nextRevisionId++
	j.validRevisions = append(j.validRevisions, revision{id, len(j.changeLogs)})
	return id
}

// RevertToSnapshot reverts all changes made since the given revision.
func (j *journal) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(j.validRevisions), func(i int) bool {
		return j.validRevisions[i].id >= revid
	})
	if idx == len(j.validRevisions) || j.validRevisions[idx].id != revid {
		log.Errorf("revision id %v cannot be reverted", revid)
		panic(ErrRevisionNotExist)
	}
	snapshot := j.validRevisions[idx].journalIndex

	// Replay the change log to undo changes.
	for i := len(j.changeLogs) - 1; i >= snapshot; i-- {
		j.changeLogs[i].Undo()
	}
	j.changeLogs = j.changeLogs[:snapshot]

	// Remove invalidated snapshots from the stack.
	j.validRevisions = j.validRevisions[:idx]
}

func (j *journal) clear() {
	j.changeLogs = make([]*ChangeLog, 0)
	j.validRevisions = j.validRevisions[:0]
}
