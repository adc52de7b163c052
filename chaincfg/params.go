// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
)

// Checkpoint identifies a known good point in the block chain.  Using
// checkpoints allows a few optimizations for old blocks during initial download
// and also prevents forks from old blocks.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// ConsensusDeployment defines details related to a specific consensus rule
// change that is voted in.  This is part of BIP0009.
type ConsensusDeployment struct {
	// BitNumber defines the specific bit number within the block version
	// this particular soft-fork deployment refers to.
	BitNumber uint8

	// StartTime is the median block time after which voting on the
	// deployment starts.
	StartTime int64

	// ExpireTime is the median block time after which the attempted
	// deployment expires.
	ExpireTime int64
}

// Constants that define the deployment offset in the deployments field of the
// parameters for each deployment.  This is useful to be able to get the details
// of a specific deployment by name.
const (
	// DeploymentTestDummy defines the rule change deployment ID for testing
	// purposes.
	DeploymentTestDummy = iota

	// DeploymentCSV defines the rule change deployment ID for the CSV
	// soft-fork package. The CSV package includes the deployment of BIPS
	// 68, 112, and 113.
	DeploymentCSV

	// DeploymentSegwit defines the rule change deployment ID for the
	// segregated witness soft-fork package.
	DeploymentSegwit

	// NOTE: DefinedDeployments must always come last since it is used to
	// determine how many defined deployments there currently are.

	// DefinedDeployments is the number of currently defined deployments.
	DefinedDeployments
)

// DeploymentNames maps the deployment IDs to the names used by the regtest
// overrides.
var DeploymentNames = [DefinedDeployments]string{
	DeploymentTestDummy: "testdummy",
	DeploymentCSV:       "csv",
	DeploymentSegwit:    "segwit",
}

// noTimeout is the expiry used for deployments that never time out.
const noTimeout = 999999999999

// Params defines a network by its parameters.  Consensus code receives the
// params explicitly, nothing in this package selects a process wide network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *model.Block

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// GenesisMerkleRoot is the merkle root of the genesis block.
	GenesisMerkleRoot *chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// PosLimit and PosLimitBits are the proof of stake equivalents.
	PosLimit     *big.Int
	PosLimitBits uint32

	// TargetSpacing is the desired block interval during the proof of work
	// distribution.
	TargetSpacing time.Duration

	// TargetStakeSpacing is the desired block interval once staking runs
	// the chain.
	TargetStakeSpacing time.Duration

	// TargetTimespan is the window the retarget interval is derived from.
	TargetTimespan time.Duration

	// StakeMinAge is the minimum age of an output before it may stake.
	StakeMinAge time.Duration

	// StakeMaxAge caps the age counted by the v1 kernel, zero or negative
	// means unlimited.
	StakeMaxAge time.Duration

	// ModifierInterval is the time to elapse before a new stake modifier
	// is computed.
	ModifierInterval time.Duration

	DistributionEndHeight int32
	LastPoWBlock          int32

	// ProtocolV2Height is the last height of the v1 stake protocol.  A
	// negative value means v2 from genesis.
	ProtocolV2Height int32
	ProtocolV3Height int32

	// CoinbaseMaturity is the number of blocks required before newly mined
	// coins can be spent.
	CoinbaseMaturity uint16

	// RuleChangeActivationThreshold is the number of blocks in a threshold
	// state retarget window for which a positive vote for a rule change
	// must be cast in order to lock in a rule change.
	RuleChangeActivationThreshold uint32

	// MinerConfirmationWindow is the number of blocks in each threshold
	// state retarget window.
	MinerConfirmationWindow uint32

	// Deployments define the specific consensus rule changes to be voted
	// on.
	Deployments [DefinedDeployments]ConsensusDeployment

	// MineBlocksOnDemand allows blocks to be produced on request with a
	// mocked clock.
	MineBlocksOnDemand bool

	// DisableStakeMinAge turns off the minimum stake age check.  It can only
	// be set through WithRegtestOverrides.
	DisableStakeMinAge bool

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name: "main",
	Net:  wire.BitcoinNet(0x15352203),

	// Chain parameters
	GenesisBlock:      mainGenesisBlock,
	GenesisHash:       newHashFromStr("00000c3ce6b3d823a35224a39798eca9ad889966aeb5a9da7b960ffb9869db35"),
	GenesisMerkleRoot: newHashFromStr(genesisMerkleRoot),
	PowLimit:          model.CompactToBigMust(0x1e0fffff),
	PowLimitBits:      0x1e0fffff,
	PosLimit:          model.CompactToBigMust(0x1e0fffff),
	PosLimitBits:      0x1e0fffff,

	TargetSpacing:      5 * time.Second,
	TargetStakeSpacing: time.Minute,
	TargetTimespan:     16 * time.Minute,
	StakeMinAge:        4 * time.Hour,
	StakeMaxAge:        -1,
	ModifierInterval:   10 * time.Minute,

	DistributionEndHeight: 10000,
	LastPoWBlock:          10000,
	ProtocolV2Height:      203500,
	ProtocolV3Height:      9999999,
	CoinbaseMaturity:      500,

	// Consensus rule change deployments.
	//
	// The miner confirmation window is defined as:
	//   target proof of work timespan / target proof of work spacing
	RuleChangeActivationThreshold: 1916, // 95% of MinerConfirmationWindow
	MinerConfirmationWindow:       2016,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber:  28,
			StartTime:  1199145601, // January 1, 2008 UTC
			ExpireTime: 1230767999, // December 31, 2008 UTC
		},
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
	},

	// Checkpoints ordered from oldest to newest.
	Checkpoints: []Checkpoint{
		{5000, newHashFromStr("0000062a14145c32edd657a1576087c183312a62ccb59883cfab5eb5e8e2f984")},
		{10000, newHashFromStr("00000de398b1ec72c393c5c54574a1e1784eb178d683e1ad0856c12fac34f603")},
		{20000, newHashFromStr("e83f9c8d6f07222274e4a7105437ac2d297455f6b19f77766e8c528356283677")},
		{100000, newHashFromStr("41148b9796e65ddbefea175f6372b2448fc2f6b22b66da64fc3a15d29c8ed843")},
		// block 199999 is timestamped after the two blocks that follow it
		{200001, newHashFromStr("c9228ec146f5a959c3e6d183419157a7c53d8a07e1dd810f8c478d66f71ac493")},
		{300000, newHashFromStr("144de2a2169e1a98e0b121bfdd7cdee6192dba71c10cde65e785e39f00f05c2b")},
		{400000, newHashFromStr("6ec2869889333270e1eb549bfe5d19b6423ad8b36a05807a71d2301accfadf0b")},
		{500000, newHashFromStr("af388da4175404ebac7be210e1ed092e4e283d167505db617f009d9bc56f42fc")},
		{600000, newHashFromStr("7b8e45a49a80036e6001d56332202d87354bcf6f29c52f2dd5616a92cdbcb587")},
		{700000, newHashFromStr("8bec13dbec630f40ed510698ec530610ab4941b6c98f7ccab89728b071c685a0")},
		{800000, newHashFromStr("fe190fa9449f261552325e4e771a4745373a062c4b4478e303b931787f16cfb3")},
		{900000, newHashFromStr("179c18fad48240b7ee5bea0b58ad4ba430ac73c585098d32d0704edf9e86e762")},
		{1000000, newHashFromStr("4bb58b747f305b04d7f71946a9650b059a58f26b44ec05b1f8bd211424c5a586")},
		{1100000, newHashFromStr("7ae10e91b28df2ffbc085c10304886b0494be3fad331c7eb90163298df79c3d0")},
		{1200000, newHashFromStr("ea14770cc6c3221bd846d47616dde32cf542714328beb17a1a0caace1c3f45a5")},
		{1300000, newHashFromStr("75b89e41b2329c07d2f7bf20dd57c42be0b9c6bbe8f4efb1bdbfa94866ee9c1c")},
		{1400000, newHashFromStr("0302c17f034ba74d1effa776bacb8d00e33d7943b24658d87e1284973462f5e4")},
		{1500000, newHashFromStr("2aea9081720f4c04208967f190ddeb942cac4b712ccad2e4e34fbfba08369486")},
		{1600000, newHashFromStr("4a2352b132204bc47681d6f1dd38762bda3fb65510b3e80ffd39b37502d80baa")},
		{1700000, newHashFromStr("d7107cd318b223801951a7b8da481c64caaccf0ee973cb7c1e59987e6dccd2bc")},
		{1800000, newHashFromStr("1a98f3ae87de517a53ba0de643f31f055a22cb2060238904285a5920371b9b8e")},
		{1900000, newHashFromStr("cc31b05431c8bc4866ce0e3ba3e0cd9d8535c5028f1a7e08678201bcb580030b")},
		{2000000, newHashFromStr("eec5059373725515e2423c15661978d55ff08b2a139f16ebcebf5c01fcdaf813")},
		{2100000, newHashFromStr("2803ef082f2a5b1d95984949fd404c01f6848794ce51cbdb074b390c4a422a93")},
		{2200000, newHashFromStr("fc3f25c1bd27e2a20a5fa0f3fd9f235249063a6eda726e7a7e7af741591e3e5c")},
		{2280000, newHashFromStr("37558d2153a41e277bf9c9393cf9b41fe318e4c766b3e16c55b51c01e7423048")},
	},
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name: "test",
	Net:  wire.BitcoinNet(0xdfc0f1c4),

	// Chain parameters
	GenesisBlock:      testGenesisBlock,
	GenesisHash:       newHashFromStr(testGenesisHash),
	GenesisMerkleRoot: newHashFromStr(genesisMerkleRoot),
	PowLimit:          model.CompactToBigMust(0x1f00ffff),
	PowLimitBits:      0x1f00ffff,
	PosLimit:          model.CompactToBigMust(0x1e0fffff),
	PosLimitBits:      0x1e0fffff,

	TargetSpacing:      5 * time.Second,
	TargetStakeSpacing: time.Minute,
	TargetTimespan:     16 * time.Minute,
	StakeMinAge:        30 * time.Minute,
	StakeMaxAge:        -1,
	ModifierInterval:   10 * time.Minute,

	DistributionEndHeight: 300,
	LastPoWBlock:          300,
	ProtocolV2Height:      -1,
	ProtocolV3Height:      3000000,
	CoinbaseMaturity:      10,

	RuleChangeActivationThreshold: 1512, // 75% of MinerConfirmationWindow
	MinerConfirmationWindow:       2016,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
	},

	Checkpoints: []Checkpoint{
		{0, newHashFromStr(testGenesisHash)},
	},
}

// RegressionNetParams defines the network parameters for the regression test
// network.  Timing values follow the test network.
var RegressionNetParams = Params{
	Name: "regtest",
	Net:  wire.BitcoinNet(0xdab5bffa),

	// Chain parameters
	GenesisBlock:      testGenesisBlock,
	GenesisHash:       newHashFromStr(testGenesisHash),
	GenesisMerkleRoot: newHashFromStr(genesisMerkleRoot),
	PowLimit:          model.CompactToBigMust(0x1e0fffff),
	PowLimitBits:      0x1e0fffff,
	PosLimit:          model.CompactToBigMust(0x1e0fffff),
	PosLimitBits:      0x1e0fffff,

	TargetSpacing:      5 * time.Second,
	TargetStakeSpacing: time.Minute,
	TargetTimespan:     16 * time.Minute,
	StakeMinAge:        30 * time.Minute,
	StakeMaxAge:        -1,
	ModifierInterval:   10 * time.Minute,

	DistributionEndHeight: 300,
	LastPoWBlock:          300,
	ProtocolV2Height:      -1,
	ProtocolV3Height:      3000000,
	CoinbaseMaturity:      10,

	RuleChangeActivationThreshold: 108, // 75%  of MinerConfirmationWindow
	MinerConfirmationWindow:       144,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber:  28,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  0,
			ExpireTime: noTimeout,
		},
	},

	MineBlocksOnDemand: true,

	Checkpoints: []Checkpoint{
		{0, newHashFromStr(testGenesisHash)},
	},
}

// ErrDuplicateNet describes an error where the parameters for a network
// could not be set due to the network already being a standard network
// or previously-registered into this package.
var ErrDuplicateNet = errors.NewConfigurationError("duplicate network")

var registeredNets = make(map[wire.BitcoinNet]*Params)

// Register registers the network parameters for a network.  This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}

	registeredNets[params.Net] = params

	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error.  This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// IsMainNet reports whether the params describe the main network.
func (p *Params) IsMainNet() bool {
	return p.Name == MainNetParams.Name
}

// IsProtocolV2 reports whether a block at height uses the v2 stake protocol.
func (p *Params) IsProtocolV2(height int32) bool {
	return height > p.ProtocolV2Height
}

// CheckpointHash returns the checkpointed hash at height, nil when height is
// not a checkpoint.
func (p *Params) CheckpointHash(height int32) *chainhash.Hash {
	for _, c := range p.Checkpoints {
		if c.Height == height {
			return c.Hash
		}
	}

	return nil
}

// LastCheckpoint returns the newest checkpoint, nil when there is none.
func (p *Params) LastCheckpoint() *Checkpoint {
	if len(p.Checkpoints) == 0 {
		return nil
	}

	return &p.Checkpoints[len(p.Checkpoints)-1]
}

// StakeMinAgeSeconds returns the minimum stake age in seconds, zero when the
// check is disabled.
func (p *Params) StakeMinAgeSeconds() int64 {
	if p.DisableStakeMinAge {
		return 0
	}

	return int64(p.StakeMinAge / time.Second)
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash.  It only differs from the one available in chainhash in that
// it panics on an error since it will only (and must only) be called with
// hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}

	return hash
}

// GetChainParams returns the params registered under network.  The long
// names used by the configuration are accepted as aliases.
func GetChainParams(network string) (*Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet":
		return &MainNetParams, nil
	case "test", "testnet", "testnet3":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		for _, p := range registeredNets {
			if p.Name == network {
				return p, nil
			}
		}

		return nil, errors.NewConfigurationError("unknown network %s", network)
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
