package api

import "fmt"

// MockClient implements APIClient with in-memory data for tests. It is
// seeded with a small topology and mutates its slices on create/delete so
// command tests can observe state changes.
type MockClient struct {
	LANs   []WirelessLANInfo
	Links  []WirelessLinkInfo
	VLANs  []VLANInfo
	Ifaces []InterfaceInfo

	nextID int64
}

var _ APIClient = (*MockClient)(nil)

// NewMockClient returns a MockClient seeded with canned data.
func NewMockClient() *MockClient {
	vlan := VLANInfo{ID: 1, URL: "http://mock/api/v1/ipam/vlans/1/", Display: "backbone (100)", VID: 100, Name: "backbone"}
	ifaceA := InterfaceInfo{ID: 1, URL: "http://mock/api/v1/dcim/interfaces/1/", Display: "wlan0", Device: "ap-east-01", Name: "wlan0"}
	ifaceB := InterfaceInfo{ID: 2, URL: "http://mock/api/v1/dcim/interfaces/2/", Display: "wlan0", Device: "ap-west-01", Name: "wlan0"}
	return &MockClient{
		VLANs:  []VLANInfo{vlan},
		Ifaces: []InterfaceInfo{ifaceA, ifaceB},
		LANs: []WirelessLANInfo{
			{ID: 1, URL: "http://mock/api/v1/wireless/wireless-lans/1/", Display: "corp-wifi", SSID: "corp-wifi", Description: "office network", VLAN: &vlan},
			{ID: 2, URL: "http://mock/api/v1/wireless/wireless-lans/2/", Display: "guest-wifi", SSID: "guest-wifi"},
		},
		Links: []WirelessLinkInfo{
			{ID: 1, URL: "http://mock/api/v1/wireless/wireless-links/1/", Display: "#1", InterfaceA: &ifaceA, InterfaceB: &ifaceB, SSID: "backhaul-east-west"},
		},
		nextID: 10,
	}
}

func (m *MockClient) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockClient) ListWirelessLANs() ([]WirelessLANInfo, error) { return m.LANs, nil }

func (m *MockClient) GetWirelessLAN(id int64) (*WirelessLANInfo, error) {
	for i := range m.LANs {
		if m.LANs[i].ID == id {
			return &m.LANs[i], nil
		}
	}
	return nil, fmt.Errorf("wireless lan %d not found", id)
}

func (m *MockClient) CreateWirelessLAN(body map[string]any) (*WirelessLANInfo, error) {
	ssid, _ := body["ssid"].(string)
	if ssid == "" {
		return nil, fmt.Errorf("server returned 400: ssid: This field is required.")
	}
	desc, _ := body["description"].(string)
	lan := WirelessLANInfo{ID: m.id(), SSID: ssid, Display: ssid, Description: desc}
	lan.URL = fmt.Sprintf("http://mock/api/v1/wireless/wireless-lans/%d/", lan.ID)
	m.LANs = append(m.LANs, lan)
	return &lan, nil
}

func (m *MockClient) DeleteWirelessLAN(id int64) error {
	for i := range m.LANs {
		if m.LANs[i].ID == id {
			m.LANs = append(m.LANs[:i], m.LANs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("wireless lan %d not found", id)
}

func (m *MockClient) ListWirelessLinks() ([]WirelessLinkInfo, error) { return m.Links, nil }

func (m *MockClient) GetWirelessLink(id int64) (*WirelessLinkInfo, error) {
	for i := range m.Links {
		if m.Links[i].ID == id {
			return &m.Links[i], nil
		}
	}
	return nil, fmt.Errorf("wireless link %d not found", id)
}

func (m *MockClient) CreateWirelessLink(body map[string]any) (*WirelessLinkInfo, error) {
	link := WirelessLinkInfo{ID: m.id()}
	link.SSID, _ = body["ssid"].(string)
	link.Description, _ = body["description"].(string)
	link.Display = fmt.Sprintf("#%d", link.ID)
	link.URL = fmt.Sprintf("http://mock/api/v1/wireless/wireless-links/%d/", link.ID)
	m.Links = append(m.Links, link)
	return &link, nil
}

func (m *MockClient) DeleteWirelessLink(id int64) error {
	for i := range m.Links {
		if m.Links[i].ID == id {
			m.Links = append(m.Links[:i], m.Links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("wireless link %d not found", id)
}

func (m *MockClient) ListVLANs() ([]VLANInfo, error) { return m.VLANs, nil }

func (m *MockClient) CreateVLAN(body map[string]any) (*VLANInfo, error) {
	vlan := VLANInfo{ID: m.id()}
	vlan.Name, _ = body["name"].(string)
	if vid, ok := body["vid"].(float64); ok {
		vlan.VID = int(vid)
	}
	if vid, ok := body["vid"].(int); ok {
		vlan.VID = vid
	}
	vlan.Display = fmt.Sprintf("%s (%d)", vlan.Name, vlan.VID)
	vlan.URL = fmt.Sprintf("http://mock/api/v1/ipam/vlans/%d/", vlan.ID)
	m.VLANs = append(m.VLANs, vlan)
	return &vlan, nil
}

func (m *MockClient) DeleteVLAN(id int64) error {
	for i := range m.VLANs {
		if m.VLANs[i].ID == id {
			m.VLANs = append(m.VLANs[:i], m.VLANs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("vlan %d not found", id)
}

func (m *MockClient) ListInterfaces() ([]InterfaceInfo, error) { return m.Ifaces, nil }

func (m *MockClient) ListInterfacesByDevice(device string) ([]InterfaceInfo, error) {
	var out []InterfaceInfo
	for _, iface := range m.Ifaces {
		if iface.Device == device {
			out = append(out, iface)
		}
	}
	return out, nil
}

func (m *MockClient) CreateInterface(body map[string]any) (*InterfaceInfo, error) {
	iface := InterfaceInfo{ID: m.id()}
	iface.Device, _ = body["device"].(string)
	iface.Name, _ = body["name"].(string)
	iface.Display = iface.Name
	iface.URL = fmt.Sprintf("http://mock/api/v1/dcim/interfaces/%d/", iface.ID)
	m.Ifaces = append(m.Ifaces, iface)
	return &iface, nil
}

func (m *MockClient) DeleteInterface(id int64) error {
	for i := range m.Ifaces {
		if m.Ifaces[i].ID == id {
			m.Ifaces = append(m.Ifaces[:i], m.Ifaces[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("interface %d not found", id)
}

func (m *MockClient) Status() (*StatusInfo, error) {
	return &StatusInfo{
		Version:       "mock",
		WirelessLANs:  len(m.LANs),
		WirelessLinks: len(m.Links),
		VLANs:         len(m.VLANs),
		Interfaces:    len(m.Ifaces),
	}, nil
}
