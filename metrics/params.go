package metrics

const LevelDBPrefix = "directsell/db/marketdata/"

var (
	// market operations
	marketModule             = "market/"
	Sell_meterName           = marketModule + "sell/create"
	LowerPrice_meterName     = marketModule + "lowerPrice/update"
	Cancel_meterName         = marketModule + "cancel/close"
	AdminCancel_meterName    = marketModule + "adminCancel/close"
	Buy_meterName            = marketModule + "buy/settle"
	BuyFailed_meterName      = marketModule + "buy/failed"
	Settlement_timerName     = marketModule + "buy/settleTime"
	OpenListings_counterName = marketModule + "listings/open"

	// leveldb
	LevelDb_get_timerName       = LevelDBPrefix + "user/gets"
	LevelDb_put_timerName       = LevelDBPrefix + "user/puts"
	LevelDb_del_timerName       = LevelDBPrefix + "user/dels"
	LevelDb_miss_meterName      = LevelDBPrefix + "user/misses"
	LevelDb_read_meterName      = LevelDBPrefix + "user/reads"
	LevelDb_write_meterName     = LevelDBPrefix + "user/writes"
	LevelDb_compTime_meteName   = LevelDBPrefix + "user/time"
	LevelDb_compRead_meterName  = LevelDBPrefix + "user/input"
	LevelDb_compWrite_meterName = LevelDBPrefix + "user/output"
)
