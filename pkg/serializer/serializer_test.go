package serializer_test

import (
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

// fakeResolver is a map-backed RefResolver for serializer tests.
type fakeResolver struct {
	vlans  map[int64]*model.VLAN
	ifaces map[int64]*model.Interface
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		vlans:  make(map[int64]*model.VLAN),
		ifaces: make(map[int64]*model.Interface),
	}
}

func (f *fakeResolver) VLAN(id int64) (*model.VLAN, error) {
	v, ok := f.vlans[id]
	if !ok {
		return nil, errors.Mark(errors.Newf("vlan %d", id), serializer.ErrReferenceNotFound)
	}
	return v, nil
}

func (f *fakeResolver) Interface(id int64) (*model.Interface, error) {
	i, ok := f.ifaces[id]
	if !ok {
		return nil, errors.Mark(errors.Newf("interface %d", id), serializer.ErrReferenceNotFound)
	}
	return i, nil
}

var testCtx = serializer.RequestContext{BaseURL: "http://airwave.test"}

func TestWirelessLANResource_FieldSet(t *testing.T) {
	refs := newFakeResolver()
	refs.vlans[7] = &model.VLAN{ID: 7, VID: 100, Name: "backbone"}
	vlanID := int64(7)
	lan := &model.WirelessLAN{ID: 5, SSID: "corp-wifi", Description: "office", VLANID: &vlanID}

	res, err := serializer.NewWirelessLAN(testCtx, lan, refs)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))

	// The representation is an allow-list: exactly these keys, nothing else.
	want := []string{"id", "url", "display", "ssid", "description", "vlan"}
	assert.Len(t, fields, len(want))
	for _, key := range want {
		assert.Contains(t, fields, key)
	}

	assert.Equal(t, "corp-wifi", res.SSID)
	assert.Equal(t, "corp-wifi", res.Display)
	assert.Equal(t, "http://airwave.test/api/v1/wireless/wireless-lans/5/", res.URL)
}

func TestWirelessLANResource_NullVLAN(t *testing.T) {
	lan := &model.WirelessLAN{ID: 1, SSID: "guest"}

	res, err := serializer.NewWirelessLAN(testCtx, lan, newFakeResolver())
	require.NoError(t, err)
	require.Nil(t, res.VLAN)

	// Absent optional relation renders as an explicit null, not a missing key.
	b, err := json.Marshal(res)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))
	require.Contains(t, fields, "vlan")
	assert.Equal(t, "null", string(fields["vlan"]))
}

func TestWirelessLANResource_NestedVLANDepthOne(t *testing.T) {
	refs := newFakeResolver()
	refs.vlans[7] = &model.VLAN{ID: 7, VID: 100, Name: "backbone"}
	vlanID := int64(7)
	lan := &model.WirelessLAN{ID: 5, SSID: "corp-wifi", VLANID: &vlanID}

	res, err := serializer.NewWirelessLAN(testCtx, lan, refs)
	require.NoError(t, err)
	require.NotNil(t, res.VLAN)

	assert.Equal(t, int64(7), res.VLAN.ID)
	assert.Equal(t, 100, res.VLAN.VID)
	assert.Equal(t, "backbone", res.VLAN.Name)
	assert.Equal(t, "backbone (100)", res.VLAN.Display)
	assert.Equal(t, "http://airwave.test/api/v1/ipam/vlans/7/", res.VLAN.URL)

	// The nested reference carries only identity fields, no further expansion.
	b, err := json.Marshal(res.VLAN)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Len(t, fields, 5)
}

func TestWirelessLANResource_DanglingVLAN(t *testing.T) {
	vlanID := int64(99)
	lan := &model.WirelessLAN{ID: 5, SSID: "corp-wifi", VLANID: &vlanID}

	_, err := serializer.NewWirelessLAN(testCtx, lan, newFakeResolver())
	require.Error(t, err)
	assert.True(t, errors.Is(err, serializer.ErrReferenceNotFound))
}

func TestWirelessLinkResource_FieldSet(t *testing.T) {
	refs := newFakeResolver()
	refs.ifaces[1] = &model.Interface{ID: 1, Device: "ap-east-01", Name: "wlan0"}
	refs.ifaces[2] = &model.Interface{ID: 2, Device: "ap-west-01", Name: "wlan0"}
	link := &model.WirelessLink{ID: 3, InterfaceAID: 1, InterfaceBID: 2, SSID: "backhaul"}

	res, err := serializer.NewWirelessLink(testCtx, link, refs)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))

	want := []string{"id", "url", "display", "interface_a", "interface_b", "ssid", "description"}
	assert.Len(t, fields, len(want))
	for _, key := range want {
		assert.Contains(t, fields, key)
	}

	assert.Equal(t, "#3", res.Display)
	require.NotNil(t, res.InterfaceA)
	assert.Equal(t, "ap-east-01", res.InterfaceA.Device)
	assert.Equal(t, "wlan0", res.InterfaceA.Name)
	assert.Equal(t, "wlan0", res.InterfaceA.Display)
	require.NotNil(t, res.InterfaceB)
	assert.Equal(t, "ap-west-01", res.InterfaceB.Device)
}

func TestWirelessLinkResource_UnsetInterface(t *testing.T) {
	link := &model.WirelessLink{ID: 3, InterfaceAID: 0, InterfaceBID: 2}

	_, err := serializer.NewWirelessLink(testCtx, link, newFakeResolver())
	require.Error(t, err)
	assert.True(t, errors.Is(err, serializer.ErrSerialization))
}

func TestWirelessLinkResource_DanglingInterface(t *testing.T) {
	refs := newFakeResolver()
	refs.ifaces[1] = &model.Interface{ID: 1, Device: "ap-east-01", Name: "wlan0"}
	link := &model.WirelessLink{ID: 3, InterfaceAID: 1, InterfaceBID: 99}

	_, err := serializer.NewWirelessLink(testCtx, link, refs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, serializer.ErrReferenceNotFound))
}

func TestBriefRefs(t *testing.T) {
	lan := &model.WirelessLAN{ID: 5, SSID: "corp-wifi"}
	lanRef, err := serializer.NewWirelessLANRef(testCtx, lan)
	require.NoError(t, err)
	assert.Equal(t, "corp-wifi", lanRef.Display)
	assert.Equal(t, "http://airwave.test/api/v1/wireless/wireless-lans/5/", lanRef.URL)

	link := &model.WirelessLink{ID: 9, SSID: "backhaul"}
	linkRef, err := serializer.NewWirelessLinkRef(testCtx, link)
	require.NoError(t, err)
	assert.Equal(t, "#9", linkRef.Display)
	assert.Equal(t, "backhaul", linkRef.SSID)
}

func TestRoundTrip_CreateThenSerialize(t *testing.T) {
	refs := newFakeResolver()
	refs.vlans[7] = &model.VLAN{ID: 7, VID: 100, Name: "backbone"}

	lan, err := serializer.DecodeWirelessLAN([]byte(`{"ssid":"new-net","description":"fresh","vlan":7}`), nil, refs)
	require.NoError(t, err)
	lan.ID = 42

	res, err := serializer.NewWirelessLAN(testCtx, lan, refs)
	require.NoError(t, err)
	assert.Equal(t, "new-net", res.SSID)
	assert.Equal(t, "fresh", res.Description)
	require.NotNil(t, res.VLAN)
	assert.Equal(t, int64(7), res.VLAN.ID)
}
