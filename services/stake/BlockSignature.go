package stake

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/clamcoin/clamnode/errors"
	"github.com/clamcoin/clamnode/model"
)

// CheckBlockSignature verifies the block signature. Proof of work blocks
// must not carry one. Proof of stake blocks are signed over the block hash
// by the key of the coinstake's second output, which must pay to a public key.
func CheckBlockSignature(block *model.Block) error {
	sig := block.Header.Signature

	if block.IsProofOfWork() {
		if len(sig) != 0 {
			return errors.NewBlockBadSignatureError("[CheckBlockSignature] proof of work block %s carries a signature", block.Hash())
		}

		return nil
	}

	if len(sig) == 0 {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] proof of stake block %s is not signed", block.Hash())
	}

	coinStake := block.CoinStake()
	if coinStake == nil {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] block %s has no coinstake", block.Hash())
	}

	pubKeyBytes, ok := extractPubKey(coinStake.Output(1).PkScript)
	if !ok {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] coinstake %s does not pay to a public key", coinStake.Hash())
	}

	pubKey, err := bec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] invalid coinstake key in block %s", block.Hash(), err)
	}

	signature, err := bec.ParseDERSignature(sig)
	if err != nil {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] malformed signature on block %s", block.Hash(), err)
	}

	if !signature.Verify(block.Hash().CloneBytes(), pubKey) {
		return errors.NewBlockBadSignatureError("[CheckBlockSignature] signature on block %s does not verify", block.Hash())
	}

	return nil
}

// extractPubKey returns the key of a pay-to-pubkey script:
// <33 or 65 byte key> OP_CHECKSIG.
func extractPubKey(script []byte) ([]byte, bool) {
	switch {
	case len(script) == 35 && script[0] == bscript.OpDATA33 && script[34] == bscript.OpCHECKSIG:
		return script[1:34], true
	case len(script) == 67 && script[0] == bscript.OpDATA65 && script[66] == bscript.OpCHECKSIG:
		return script[1:66], true
	default:
		return nil, false
	}
}
