package registry

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// CustodyViewsMetaData describes the read-only surface shared by every
// custody contract.
var CustodyViewsMetaData = &bind.MetaData{
	ABI: `[
	{"type":"function","name":"signers","stateMutability":"view","inputs":[{"name":"signer","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"timeLocker","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"controller","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]}
]`,
}

// CustodyViewsCaller is a read-only binding to a deployed custody contract.
type CustodyViewsCaller struct {
	contract *bind.BoundContract
}

func NewCustodyViewsCaller(address common.Address, caller bind.ContractCaller) (*CustodyViewsCaller, error) {
	parsed, err := CustodyViewsMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return &CustodyViewsCaller{contract: bind.NewBoundContract(address, *parsed, caller, nil, nil)}, nil
}

func (c *CustodyViewsCaller) Signers(opts *bind.CallOpts, signer common.Address) (bool, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "signers", signer)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *CustodyViewsCaller) TimeLocker(opts *bind.CallOpts) (common.Address, error) {
	return c.address(opts, "timeLocker")
}

func (c *CustodyViewsCaller) Controller(opts *bind.CallOpts) (common.Address, error) {
	return c.address(opts, "controller")
}

func (c *CustodyViewsCaller) Owner(opts *bind.CallOpts) (common.Address, error) {
	return c.address(opts, "owner")
}

func (c *CustodyViewsCaller) Paused(opts *bind.CallOpts) (bool, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "paused")
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *CustodyViewsCaller) address(opts *bind.CallOpts, method string) (common.Address, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, method)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
