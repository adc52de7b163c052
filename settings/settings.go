package settings

import (
	"strings"

	"github.com/clamcoin/clamnode/chaincfg"
	"github.com/clamcoin/clamnode/errors"
)

// NewSettings reads the settings through gocore.Config().  Values can be
// overridden with environment variables of the same name.
func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		panic(err)
	}

	s := &Settings{
		ClientName:     getString("clientName", "defaultClientName"),
		DataFolder:     getString("dataFolder", "data"),
		Network:        network,
		LogLevel:       getString("logLevel", "INFO"),
		LoggerType:     getString("logger_type", "zerolog"),
		ChainCfgParams: params,
		Stake: StakeSettings{
			KernelDebug: getBool("stake_kernel_debug", false),
		},
		Regtest: RegtestSettings{
			DisableStakeMinAge: getBool("regtest_disable_stake_min_age", false),
			Deployments:        getDeploymentWindows(),
		},
		TxMetaStore: TxMetaStoreSettings{
			StoreURL:       getURL("txmeta_store", "memory://"),
			BadgerInMemory: getBool("badger_in_memory", false),
		},
	}

	if params.Name == chaincfg.RegressionNetParams.Name {
		s.ChainCfgParams, err = params.WithRegtestOverrides(s.regtestOverrides()...)
		if err != nil {
			panic(err)
		}
	}

	return s
}

func (s *Settings) regtestOverrides() []chaincfg.RegtestOverride {
	var opts []chaincfg.RegtestOverride

	if s.Regtest.DisableStakeMinAge {
		opts = append(opts, chaincfg.WithStakeMinAgeDisabled())
	}

	for name, window := range s.Regtest.Deployments {
		opts = append(opts, chaincfg.WithDeploymentWindow(chaincfg.DeploymentByName(name), window.StartTime, window.ExpireTime))
	}

	return opts
}

// Validate checks the settings for combinations that cannot work.
func (s *Settings) Validate() error {
	if s.ChainCfgParams == nil {
		return errors.NewConfigurationError("no chain params for network %s", s.Network)
	}

	isRegtest := s.ChainCfgParams.Name == chaincfg.RegressionNetParams.Name

	if s.Regtest.DisableStakeMinAge && !isRegtest {
		return errors.NewConfigurationError("regtest_disable_stake_min_age is only allowed on regtest")
	}

	if len(s.Regtest.Deployments) > 0 && !isRegtest {
		return errors.NewConfigurationError("regtest_deployment_* is only allowed on regtest")
	}

	switch strings.ToLower(s.LoggerType) {
	case "zerolog", "gocore":
	default:
		return errors.NewConfigurationError("unknown logger_type %s", s.LoggerType)
	}

	if s.TxMetaStore.StoreURL == nil {
		return errors.NewConfigurationError("txmeta_store is not a valid url")
	}

	switch s.TxMetaStore.StoreURL.Scheme {
	case "memory":
	case "badger":
		if s.TxMetaStore.StoreURL.Path == "" && !s.TxMetaStore.BadgerInMemory {
			return errors.NewConfigurationError("badger txmeta store needs a path or badger_in_memory")
		}
	default:
		return errors.NewConfigurationError("unknown txmeta store scheme %s", s.TxMetaStore.StoreURL.Scheme)
	}

	return nil
}
