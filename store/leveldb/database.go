package leveldb

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/StorkBison/direct-sell-SC/common/log"
	"github.com/StorkBison/direct-sell-SC/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var OpenFileLimit = 64

type LevelDBDatabase struct {
	fn string      // filename for reporting
	db *leveldb.DB // LevelDB instance

	getTimer       gometrics.Timer // latency of get operations
	putTimer       gometrics.Timer // latency of put operations
	delTimer       gometrics.Timer // latency of delete operations
	missMeter      gometrics.Meter // gets for missing keys
	readMeter      gometrics.Meter // bytes read
	writeMeter     gometrics.Meter // bytes written
	compTimeMeter  gometrics.Meter // total time spent in database compaction
	compReadMeter  gometrics.Meter // data read during compaction
	compWriteMeter gometrics.Meter // data written during compaction

	quitLock sync.Mutex      // Mutex protecting the quit channel access
	quitChan chan chan error // Quit channel to stop the metrics collection before closing the database
}

// NewLevelDBDatabase returns a LevelDB wrapped object.
func NewLevelDBDatabase(file string, cache int, handles int) *LevelDBDatabase {
	// Ensure we have some minimal caching and file guarantees
	if cache < 16 {
		cache = 16
	}
	if handles < 16 {
		handles = 16
	}

	// Open the db and recover any potential corruptions
	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		panic("new level database err: " + err.Error())
	}
	return &LevelDBDatabase{
		fn: file,
		db: db,
	}
}

// NewMemDatabase returns a LevelDB instance held entirely in memory. It is
// used by tests and the demo command.
func NewMemDatabase() *LevelDBDatabase {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic("new memory database err: " + err.Error())
	}
	return &LevelDBDatabase{
		fn: "inmem",
		db: db,
	}
}

// Path returns the path to the database directory.
func (db *LevelDBDatabase) Path() string {
	return db.fn
}

// Put puts the given key / value to the database.
func (db *LevelDBDatabase) Put(key []byte, value []byte) error {
	if db.putTimer != nil {
		defer db.putTimer.UpdateSince(time.Now())
	}
	if db.writeMeter != nil {
		db.writeMeter.Mark(int64(len(value)))
	}
	return db.db.Put(key, value, nil)
}

func (db *LevelDBDatabase) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

// Get returns the given key if it's present.
func (db *LevelDBDatabase) Get(key []byte) ([]byte, error) {
	if db.getTimer != nil {
		defer db.getTimer.UpdateSince(time.Now())
	}
	dat, err := db.db.Get(key, nil)
	if err != nil {
		if db.missMeter != nil {
			db.missMeter.Mark(1)
		}
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if db.readMeter != nil {
		db.readMeter.Mark(int64(len(dat)))
	}
	return dat, nil
}

// Delete deletes the key from the database.
func (db *LevelDBDatabase) Delete(key []byte) error {
	if db.delTimer != nil {
		defer db.delTimer.UpdateSince(time.Now())
	}
	return db.db.Delete(key, nil)
}

func (db *LevelDBDatabase) NewIterator() iterator.Iterator {
	return db.db.NewIterator(nil, nil)
}

// NewIteratorWithPrefix returns a iterator to iterate over subset of database content with a particular prefix.
func (db *LevelDBDatabase) NewIteratorWithPrefix(prefix []byte) iterator.Iterator {
	return db.db.NewIterator(util.BytesPrefix(prefix), nil)
}

func (db *LevelDBDatabase) Close() {
	// Stop the metrics collection to avoid internal database races
	db.quitLock.Lock()
	defer db.quitLock.Unlock()

	if db.quitChan != nil {
		errc := make(chan error)
		db.quitChan <- errc
		if err := <-errc; err != nil {
			log.Error("Metrics collection failed", "err", err)
		}
	}
	if err := db.db.Close(); err != nil {
		log.Error("Failed to close database", "file", db.fn, "err", err)
	}
}

func (db *LevelDBDatabase) LDB() *leveldb.DB {
	return db.db
}

// Meter configures the database metrics collectors.
func (db *LevelDBDatabase) Meter() {
	// Short circuit metering if the metrics system is disabled
	if !metrics.Enabled {
		return
	}
	db.getTimer = metrics.NewTimer(metrics.LevelDb_get_timerName)
	db.putTimer = metrics.NewTimer(metrics.LevelDb_put_timerName)
	db.delTimer = metrics.NewTimer(metrics.LevelDb_del_timerName)
	db.missMeter = metrics.NewMeter(metrics.LevelDb_miss_meterName)
	db.readMeter = metrics.NewMeter(metrics.LevelDb_read_meterName)
	db.writeMeter = metrics.NewMeter(metrics.LevelDb_write_meterName)
	db.compTimeMeter = metrics.NewMeter(metrics.LevelDb_compTime_meteName)
	db.compReadMeter = metrics.NewMeter(metrics.LevelDb_compRead_meterName)
	db.compWriteMeter = metrics.NewMeter(metrics.LevelDb_compWrite_meterName)

	// Create a quit channel for the periodic collector and run it
	db.quitLock.Lock()
	db.quitChan = make(chan chan error)
	db.quitLock.Unlock()

	go db.meter(3 * time.Second)
}

// meter periodically retrieves internal leveldb compaction counters and
// reports them to the metrics subsystem.
func (db *LevelDBDatabase) meter(refresh time.Duration) {
	// Create the counters to store current and previous values
	counters := make([][]float64, 2)
	for i := 0; i < 2; i++ {
		counters[i] = make([]float64, 3)
	}
	// Iterate ad infinitum and collect the stats
	for i := 1; ; i++ {
		// Retrieve the database stats
		stats, err := db.db.GetProperty("leveldb.stats")
		if err != nil {
			log.Error("Failed to read database stats", "err", err)
			return
		}
		// Find the compaction table, skip the header
		lines := strings.Split(stats, "\n")
		for len(lines) > 0 && strings.TrimSpace(lines[0]) != "Compactions" {
			lines = lines[1:]
		}
		if len(lines) <= 3 {
			log.Error("Compaction table not found")
			return
		}
		lines = lines[3:]

		// Iterate over all the table rows, and accumulate the entries
		for j := 0; j < len(counters[i%2]); j++ {
			counters[i%2][j] = 0
		}
		for _, line := range lines {
			parts := strings.Split(line, "|")
			if len(parts) != 6 {
				break
			}
			for idx, counter := range parts[3:] {
				value, err := strconv.ParseFloat(strings.TrimSpace(counter), 64)
				if err != nil {
					log.Error("Compaction entry parsing failed", "err", err)
					return
				}
				counters[i%2][idx] += value
			}
		}
		// Update all the requested meters
		if db.compTimeMeter != nil {
			db.compTimeMeter.Mark(int64((counters[i%2][0] - counters[(i-1)%2][0]) * 1000 * 1000 * 1000))
		}
		if db.compReadMeter != nil {
			db.compReadMeter.Mark(int64((counters[i%2][1] - counters[(i-1)%2][1]) * 1024 * 1024))
		}
		if db.compWriteMeter != nil {
			db.compWriteMeter.Mark(int64((counters[i%2][2] - counters[(i-1)%2][2]) * 1024 * 1024))
		}

		// Sleep a bit, then repeat the stats collection
		select {
		case errc := <-db.quitChan:
			// Quit requesting, stop hammering the database
			errc <- nil
			return
		case <-time.After(refresh):
			// Timeout, gather a new set of stats
		}
	}
}
