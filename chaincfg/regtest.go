package chaincfg

import (
	"github.com/clamcoin/clamnode/errors"
)

// RegtestOverride adjusts a copy of the regression test params.
type RegtestOverride func(p *Params) error

// WithDeploymentWindow overrides the voting window of a deployment.
func WithDeploymentWindow(deployment int, startTime, expireTime int64) RegtestOverride {
	return func(p *Params) error {
		if deployment < 0 || deployment >= DefinedDeployments {
			return errors.NewConfigurationError("unknown deployment %d", deployment)
		}

		if expireTime < startTime {
			return errors.NewConfigurationError("deployment %s expires before it starts", DeploymentNames[deployment])
		}

		p.Deployments[deployment].StartTime = startTime
		p.Deployments[deployment].ExpireTime = expireTime

		return nil
	}
}

// WithStakeMinAgeDisabled lets freshly created outputs stake immediately.
func WithStakeMinAgeDisabled() RegtestOverride {
	return func(p *Params) error {
		p.DisableStakeMinAge = true
		return nil
	}
}

// DeploymentByName returns the deployment ID for name, -1 when unknown.
func DeploymentByName(name string) int {
	for id, n := range DeploymentNames {
		if n == name {
			return id
		}
	}

	return -1
}

// WithRegtestOverrides returns a copy of the params with the overrides
// applied.  Only the regression test network accepts overrides, the shared
// params are never modified.
func (p *Params) WithRegtestOverrides(opts ...RegtestOverride) (*Params, error) {
	if p.Net != RegressionNetParams.Net {
		return nil, errors.NewConfigurationError("overrides are only allowed on regtest, not %s", p.Name)
	}

	c := *p
	c.Checkpoints = append([]Checkpoint(nil), p.Checkpoints...)

	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}

	return &c, nil
}
