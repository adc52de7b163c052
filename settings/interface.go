package settings

import (
	"net/url"

	"github.com/clamcoin/clamnode/chaincfg"
)

// DeploymentWindow is a regtest override of a deployment's voting window.
type DeploymentWindow struct {
	StartTime  int64
	ExpireTime int64
}

type StakeSettings struct {
	// KernelDebug logs every kernel input and hash at debug level.
	KernelDebug bool
}

type RegtestSettings struct {
	DisableStakeMinAge bool
	Deployments        map[string]DeploymentWindow
}

type TxMetaStoreSettings struct {
	StoreURL       *url.URL
	BadgerInMemory bool
}

type Settings struct {
	ClientName     string
	DataFolder     string
	Network        string
	LogLevel       string
	LoggerType     string
	ChainCfgParams *chaincfg.Params
	Stake          StakeSettings
	Regtest        RegtestSettings
	TxMetaStore    TxMetaStoreSettings
}
