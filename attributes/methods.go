package attributes

import (
	"github.com/ruteri/asset-custody-bridge/chain"
)

func (s *Store) registerMethods() {
	s.methods.Register("revealBySign(uint256,uint256,uint128[],uint128[],bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, nonce, ids, values, sig := a.Big(0), a.Big(1), a.Bigs(2), a.Bigs(3), a.Bytes(4)
		if err := a.Err(); err != nil {
			return err
		}
		return s.RevealBySign(c, tokenID, nonce, ids, values, sig)
	})
	s.methods.Register("revealByMerkle(uint256,uint128[],uint128[],bytes32[])", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, ids, values, proof := a.Big(0), a.Bigs(1), a.Bigs(2), a.Hashes(3)
		if err := a.Err(); err != nil {
			return err
		}
		return s.RevealByMerkle(c, tokenID, ids, values, proof)
	})
	s.methods.Register("gameMint(uint256,uint256,uint256[],uint256[],bytes)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		nonce, eqID, ids, values, sig := a.Big(0), a.Big(1), a.Bigs(2), a.Bigs(3), a.Bytes(4)
		if err := a.Err(); err != nil {
			return err
		}
		return s.GameMint(c, nonce, eqID, ids, values, sig)
	})
	s.methods.Register("attach(uint256,uint128,uint128)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, id, value := a.Big(0), a.Big(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return s.Attach(c, tokenID, id, value)
	})
	s.methods.Register("attachBatch(uint256,uint128[],uint128[])", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, ids, values := a.Big(0), a.Bigs(1), a.Bigs(2)
		if err := a.Err(); err != nil {
			return err
		}
		return s.AttachBatch(c, tokenID, ids, values)
	})
	s.methods.Register("update(uint256,uint256,uint128)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, idx, value := a.Big(0), a.Big(1), a.Big(2)
		if err := a.Err(); err != nil {
			return err
		}
		return s.Update(c, tokenID, idx, value)
	})
	s.methods.Register("updateBatch(uint256,uint256[],uint128[])", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, idxs, values := a.Big(0), a.Bigs(1), a.Bigs(2)
		if err := a.Err(); err != nil {
			return err
		}
		return s.UpdateBatch(c, tokenID, idxs, values)
	})
	s.methods.Register("remove(uint256,uint256)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, idx := a.Big(0), a.Big(1)
		if err := a.Err(); err != nil {
			return err
		}
		return s.Remove(c, tokenID, idx)
	})
	s.methods.Register("removeBatch(uint256,uint256[])", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		tokenID, idxs := a.Big(0), a.Bigs(1)
		if err := a.Err(); err != nil {
			return err
		}
		return s.RemoveBatch(c, tokenID, idxs)
	})
	s.methods.Register("setRoot(bytes32)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		root := a.Hash(0)
		if err := a.Err(); err != nil {
			return err
		}
		return s.SetRoot(c, root)
	})
	s.methods.Register("setAttributeController(address,bool)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		controller, allowed := a.Address(0), a.Bool(1)
		if err := a.Err(); err != nil {
			return err
		}
		return s.SetAttributeController(c, controller, allowed)
	})
	s.methods.Register("setSigner(address,bool)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		signer, allowed := a.Address(0), a.Bool(1)
		if err := a.Err(); err != nil {
			return err
		}
		return s.SetSigner(c, signer, allowed)
	})
	s.methods.Register("setTimeLocker(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		timeLocker := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return s.SetTimeLocker(c, timeLocker)
	})
	s.methods.Register("setController(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		controller := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return s.SetController(c, controller)
	})
	s.methods.Register("transferOwnership(address)", func(c *chain.Call, args []any) error {
		a := chain.NewArgs(args)
		owner := a.Address(0)
		if err := a.Err(); err != nil {
			return err
		}
		return s.TransferOwnership(c, owner)
	})
	s.methods.Register("pause()", func(c *chain.Call, _ []any) error { return s.Pause(c) })
	s.methods.Register("unpause()", func(c *chain.Call, _ []any) error { return s.Unpause(c) })
}
