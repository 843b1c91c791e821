package isi

import (
	"testing"

	"github.com/irohad/iroha2/wsv"
	"github.com/stretchr/testify/require"
)

func newTestWSV(t *testing.T) (*wsv.WSV, wsv.AccountId) {
	t.Helper()
	w := wsv.New()
	alice := wsv.AccountId{Domain: "wonderland", Signatory: "alice-key"}
	d := wsv.NewDomain("wonderland", alice)
	d.Accounts[alice] = wsv.NewAccount(alice, "alice-key")
	w.Domains["wonderland"] = d
	w.IndexAccount(alice)
	return w, alice
}

func execAll(ctx ExecutionContext, w *wsv.WSV, instrs ...Instruction) error {
	for _, instr := range instrs {
		if err := instr.Execute(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Spec §8 scenario 1: register, then register again.
func TestRegisterAssetThenRegisterAgainFails(t *testing.T) {
	w, alice := newTestWSV(t)
	ctx := ExecutionContext{Authority: alice}

	defId := wsv.AssetDefinitionId{Name: "test_asset", Domain: "wonderland"}
	assetId := wsv.AssetId{Definition: defId, Account: alice}

	err := execAll(ctx, w,
		&RegisterAssetDefinition{Id: defId, ValueKind: wsv.AssetValueNumeric, NumericSpec: wsv.IntegerSpec(), Mintability: wsv.MintInfinitely, Owner: alice},
		&RegisterAsset{Id: assetId, Value: wsv.IntegerValue(0)},
	)
	require.NoError(t, err)

	asset, err := w.Asset(assetId)
	require.NoError(t, err)
	require.True(t, asset.Value.Numeric.IsZero())

	err = (&RegisterAsset{Id: assetId, Value: wsv.IntegerValue(0)}).Execute(ctx, w)
	require.Error(t, err)
	var rep *wsv.RepetitionError
	require.ErrorAs(t, err, &rep)
}

// Spec §8 scenario 2: mint then burn to zero purges.
func TestMintThenTransferAllPurgesSeller(t *testing.T) {
	w, _ := newTestWSV(t)
	owner := wsv.AccountId{Domain: "crypto", Signatory: "owner-key"}
	seller := wsv.AccountId{Domain: "company", Signatory: "seller-key"}
	buyer := wsv.AccountId{Domain: "company", Signatory: "buyer-key"}

	w.Domains["crypto"] = wsv.NewDomain("crypto", owner)
	companyDomain := wsv.NewDomain("company", owner)
	companyDomain.Accounts[seller] = wsv.NewAccount(seller, "seller-key")
	companyDomain.Accounts[buyer] = wsv.NewAccount(buyer, "buyer-key")
	w.Domains["company"] = companyDomain
	w.IndexAccount(seller)
	w.IndexAccount(buyer)

	defId := wsv.AssetDefinitionId{Name: "btc", Domain: "crypto"}
	ctx := ExecutionContext{Authority: owner}
	require.NoError(t, (&RegisterAssetDefinition{Id: defId, ValueKind: wsv.AssetValueNumeric, NumericSpec: wsv.IntegerSpec(), Mintability: wsv.MintInfinitely, Owner: owner}).Execute(ctx, w))

	sellerAsset := wsv.AssetId{Definition: defId, Account: seller}
	require.NoError(t, (&MintAsset{Id: sellerAsset, Value: wsv.IntegerValue(20)}).Execute(ctx, w))

	require.NoError(t, (&TransferNumericAsset{Definition: defId, From: seller, To: buyer, Value: wsv.IntegerValue(20)}).Execute(ctx, w))

	_, err := w.Asset(sellerAsset)
	require.Error(t, err, "seller's zeroed asset must be purged")

	buyerAsset, err := w.Asset(wsv.AssetId{Definition: defId, Account: buyer})
	require.NoError(t, err)
	require.Equal(t, int64(20), buyerAsset.Value.Numeric.Mantissa)
}

// Spec §8 scenario 3: precision mismatch.
func TestPrecisionMismatchRejectsFractionalOnIntegerSpec(t *testing.T) {
	w, alice := newTestWSV(t)
	ctx := ExecutionContext{Authority: alice}
	defId := wsv.AssetDefinitionId{Name: "asset", Domain: "wonderland"}
	require.NoError(t, (&RegisterAssetDefinition{Id: defId, ValueKind: wsv.AssetValueNumeric, NumericSpec: wsv.IntegerSpec(), Mintability: wsv.MintInfinitely, Owner: alice}).Execute(ctx, w))

	assetId := wsv.AssetId{Definition: defId, Account: alice}
	fractional := wsv.Numeric{Mantissa: 1, Scale: 2} // 0.01

	err := (&RegisterAsset{Id: assetId, Value: fractional}).Execute(ctx, w)
	require.Error(t, err)
	var typeErr *wsv.TypeError
	require.ErrorAs(t, err, &typeErr)

	err = (&RegisterAsset{Id: assetId, Value: wsv.IntegerValue(1)}).Execute(ctx, w)
	require.NoError(t, err)
}

// Spec §4.E: mint on Once-mintable transitions to Not; zero mint is a
// no-op; further mints fail.
func TestMintOnceTransitionsToNot(t *testing.T) {
	w, alice := newTestWSV(t)
	ctx := ExecutionContext{Authority: alice}
	defId := wsv.AssetDefinitionId{Name: "nft", Domain: "wonderland"}
	require.NoError(t, (&RegisterAssetDefinition{Id: defId, ValueKind: wsv.AssetValueNumeric, NumericSpec: wsv.IntegerSpec(), Mintability: wsv.MintOnce, Owner: alice}).Execute(ctx, w))

	assetId := wsv.AssetId{Definition: defId, Account: alice}
	require.NoError(t, (&MintAsset{Id: assetId, Value: wsv.IntegerValue(0)}).Execute(ctx, w))
	def, _ := w.AssetDefinition(defId)
	require.Equal(t, wsv.MintOnce, def.Mintability, "zero mint on Once must not transition")

	require.NoError(t, (&MintAsset{Id: assetId, Value: wsv.IntegerValue(1)}).Execute(ctx, w))
	require.Equal(t, wsv.MintNot, def.Mintability)

	err := (&MintAsset{Id: assetId, Value: wsv.IntegerValue(1)}).Execute(ctx, w)
	require.Error(t, err)
	var mErr *wsv.MintabilityError
	require.ErrorAs(t, err, &mErr)
}

func TestBurnLastSignatoryIsInvariantViolation(t *testing.T) {
	w, alice := newTestWSV(t)
	acc, _ := w.Account(alice)
	err := acc.RemoveSignatory("alice-key")
	require.Error(t, err)
	var inv *wsv.InvariantViolationError
	require.ErrorAs(t, err, &inv)
}

func TestGrantRoleExpandsPermissions(t *testing.T) {
	w, alice := newTestWSV(t)
	ctx := ExecutionContext{Authority: alice}
	perm := wsv.Permission{Id: "CanDoThing", Payload: "{}"}
	require.NoError(t, (&RegisterRole{Id: "admin", Permissions: []wsv.Permission{perm}}).Execute(ctx, w))
	require.NoError(t, (&GrantRole{Account: alice, Role: "admin"}).Execute(ctx, w))

	acc, _ := w.Account(alice)
	require.True(t, acc.HasRole("admin"))
	require.True(t, acc.HasPermission(perm))

	require.NoError(t, (&RevokeRole{Account: alice, Role: "admin"}).Execute(ctx, w))
	require.False(t, acc.HasRole("admin"))
	require.False(t, acc.HasPermission(perm))
}

func TestExecutorDenyWins(t *testing.T) {
	w, alice := newTestWSV(t)
	e := NewExecutor()
	e.Use(InstructionValidatorFunc(func(a wsv.AccountId, i Instruction, w *wsv.WSV) Judgement {
		return Skip()
	}))
	e.Use(InstructionValidatorFunc(func(a wsv.AccountId, i Instruction, w *wsv.WSV) Judgement {
		return Deny("no")
	}))
	j := e.Validate(alice, &RegisterDomain{Id: "evil", Owner: alice}, w)
	require.Equal(t, VerdictDeny, j.Verdict)
}
