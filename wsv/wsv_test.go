package wsv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func wonderland() (*WSV, AccountId) {
	w := New()
	owner := AccountId{Domain: "wonderland", Signatory: "alice-key"}
	d := NewDomain("wonderland", owner)
	d.Accounts[owner] = NewAccount(owner, "alice-key")
	w.Domains["wonderland"] = d
	w.IndexAccount(owner)
	return w, owner
}

func TestAccountCannotDropLastSignatory(t *testing.T) {
	w, alice := wonderland()
	acc, err := w.Account(alice)
	require.NoError(t, err)

	err = acc.RemoveSignatory("alice-key")
	require.Error(t, err)
	var invariant *InvariantViolationError
	require.ErrorAs(t, err, &invariant)
}

func TestAccountAllowsDroppingNonLastSignatory(t *testing.T) {
	w, alice := wonderland()
	acc, err := w.Account(alice)
	require.NoError(t, err)
	acc.AddSignatory("second-key")

	require.NoError(t, acc.RemoveSignatory("alice-key"))
	require.Len(t, acc.Signatories, 1)
}

func TestZeroNumericAssetIsPurged(t *testing.T) {
	w, alice := wonderland()
	acc, _ := w.Account(alice)

	assetDefId := AssetDefinitionId{Name: "rose", Domain: "wonderland"}
	assetId := AssetId{Definition: assetDefId, Account: alice}
	acc.PutAsset(&Asset{Id: assetId, Value: AssetValue{Kind: AssetValueNumeric, Numeric: IntegerValue(5)}})
	_, ok := acc.Asset(assetId)
	require.True(t, ok)

	acc.PutAsset(&Asset{Id: assetId, Value: AssetValue{Kind: AssetValueNumeric, Numeric: IntegerValue(0)}})
	_, ok = acc.Asset(assetId)
	require.False(t, ok, "zero-valued numeric asset must be purged from the account map")
}

func TestNumericSpecRejectsExcessPrecision(t *testing.T) {
	def := &AssetDefinition{
		Id:          AssetDefinitionId{Name: "asset", Domain: "wonderland"},
		ValueKind:   AssetValueNumeric,
		NumericSpec: IntegerSpec(),
	}
	err := def.CheckValue(Numeric{Mantissa: 1, Scale: 2}) // 0.01
	require.Error(t, err)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)

	require.NoError(t, def.CheckValue(IntegerValue(1)))
}

func TestFractionalSpecAllowsDeclaredPrecision(t *testing.T) {
	def := &AssetDefinition{
		Id:          AssetDefinitionId{Name: "asset", Domain: "wonderland"},
		ValueKind:   AssetValueNumeric,
		NumericSpec: FractionalSpec(2),
	}
	require.NoError(t, def.CheckValue(Numeric{Mantissa: 150, Scale: 2})) // 1.50
	err := def.CheckValue(Numeric{Mantissa: 1, Scale: 3})                // 0.001
	require.Error(t, err)
}

func TestSignatureConditions(t *testing.T) {
	signatories := map[PublicKey]struct{}{"a": {}, "b": {}, "c": {}}

	require.True(t, AnyOf{}.Evaluate(signatories, map[PublicKey]struct{}{"b": {}}))
	require.False(t, AnyOf{}.Evaluate(signatories, map[PublicKey]struct{}{"z": {}}))

	require.False(t, AllOf{}.Evaluate(signatories, map[PublicKey]struct{}{"a": {}, "b": {}}))
	require.True(t, AllOf{}.Evaluate(signatories, map[PublicKey]struct{}{"a": {}, "b": {}, "c": {}}))

	th := Threshold{N: 2}
	require.True(t, th.Evaluate(signatories, map[PublicKey]struct{}{"a": {}, "c": {}}))
	require.False(t, th.Evaluate(signatories, map[PublicKey]struct{}{"a": {}}))
}

func TestSnapshotTopLevelMapIsIndependentOfLaterMutation(t *testing.T) {
	w, _ := wonderland()
	snap := w.Snapshot()
	require.Contains(t, snap.Domains, DomainId("wonderland"))

	second := NewDomain("second", AccountId{Domain: "second", Signatory: "carol-key"})
	w.Domains["second"] = second

	require.NotContains(t, snap.Domains, DomainId("second"), "a later top-level Domains entry must not appear in an already-taken snapshot")
}

func TestSnapshotConcurrentCallsAtSameHeightAreCoalesced(t *testing.T) {
	w, _ := wonderland()

	const callers = 8
	results := make([]*WSV, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = w.Snapshot()
		}()
	}
	wg.Wait()

	// singleflight only coalesces calls that genuinely overlap; all we can
	// assert deterministically is that every concurrent caller got back a
	// correctly-populated clone of the same height.
	for _, r := range results {
		require.Contains(t, r.Domains, DomainId("wonderland"))
		require.Equal(t, w.Height, r.Height)
	}
}

func TestMetadataLimits(t *testing.T) {
	m := NewMetadata()
	limits := MetadataLimits{MaxEntries: 1, MaxDepth: 4, MaxByteSize: 1024}
	require.NoError(t, m.Set("k1", "v1", limits))
	err := m.Set("k2", "v2", limits)
	require.Error(t, err)
	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
}
