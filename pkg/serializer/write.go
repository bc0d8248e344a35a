package serializer

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/airwave-net/airwave/pkg/model"
)

const (
	// maxSSIDLen is the 802.11 SSID length limit.
	maxSSIDLen        = 32
	maxDescriptionLen = 200
)

// nonFieldErrors is the key used for messages that do not belong to a single
// field, such as a malformed request body.
const nonFieldErrors = "non_field_errors"

// decodeBody unmarshals a request body into a field map and rejects any key
// outside the allow-list.
func decodeBody(body []byte, allowed []string, verr *ValidationError) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	if len(body) == 0 {
		return fields
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		verr.Add(nonFieldErrors, "invalid JSON body")
		return nil
	}
	for key := range fields {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			verr.Add(key, "unknown field")
			delete(fields, key)
		}
	}
	return fields
}

// decodeString decodes a JSON string field into dst, recording a validation
// message on type mismatch or length overflow.
func decodeString(fields map[string]json.RawMessage, name string, maxLen int, dst *string, verr *ValidationError) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.Add(name, "expected a string")
		return
	}
	if len(s) > maxLen {
		verr.Add(name, "ensure this field has no more than %d characters", maxLen)
		return
	}
	*dst = s
}

// relatedRef is the object form of a relational field value.
type relatedRef struct {
	ID *int64 `json:"id"`
}

// decodeRelatedID parses a relational field value, which may be JSON null, a
// bare integer primary key, or an object carrying an "id" member. Returns
// (nil, true) for an explicit null.
func decodeRelatedID(raw json.RawMessage, name string, verr *ValidationError) (id *int64, isNull bool) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		verr.Add(name, "expected an integer, object, or null")
		return nil, false
	}
	if probe == nil {
		return nil, true
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, false
	}
	var ref relatedRef
	if err := json.Unmarshal(raw, &ref); err == nil && ref.ID != nil {
		return ref.ID, false
	}
	verr.Add(name, "expected an integer, object with an \"id\" member, or null")
	return nil, false
}

// DecodeWirelessLAN validates a request body and applies it to a WirelessLAN.
// When existing is nil a new entity is built and all required fields must be
// present; otherwise the body is treated as a partial update of a copy of
// existing. Returns a *ValidationError when the body violates the field
// contract, including a vlan reference that does not resolve.
func DecodeWirelessLAN(body []byte, existing *model.WirelessLAN, refs RefResolver) (*model.WirelessLAN, error) {
	verr := NewValidationError()
	fields := decodeBody(body, []string{"ssid", "description", "vlan"}, verr)
	if fields == nil {
		return nil, verr
	}

	var lan model.WirelessLAN
	if existing != nil {
		lan = *existing
	}

	if raw, ok := fields["ssid"]; ok {
		decodeString(fields, "ssid", maxSSIDLen, &lan.SSID, verr)
		var s string
		if json.Unmarshal(raw, &s) == nil && s == "" {
			verr.Add("ssid", "this field may not be blank")
		}
	} else if existing == nil {
		verr.Add("ssid", "this field is required")
	}

	decodeString(fields, "description", maxDescriptionLen, &lan.Description, verr)

	if raw, ok := fields["vlan"]; ok {
		id, isNull := decodeRelatedID(raw, "vlan", verr)
		switch {
		case isNull:
			lan.VLANID = nil
		case id != nil:
			if _, err := refs.VLAN(*id); err != nil {
				if errors.Is(err, ErrReferenceNotFound) {
					verr.Add("vlan", "related object not found: vlan %d", *id)
				} else {
					return nil, errors.Wrapf(err, "resolve vlan %d", *id)
				}
			} else {
				lan.VLANID = id
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &lan, nil
}

// DecodeWirelessLink validates a request body and applies it to a
// WirelessLink. Both interface references are required on creation and must
// resolve to distinct interfaces.
func DecodeWirelessLink(body []byte, existing *model.WirelessLink, refs RefResolver) (*model.WirelessLink, error) {
	verr := NewValidationError()
	fields := decodeBody(body, []string{"interface_a", "interface_b", "ssid", "description"}, verr)
	if fields == nil {
		return nil, verr
	}

	var link model.WirelessLink
	if existing != nil {
		link = *existing
	}

	decodeInterface := func(name string, dst *int64) error {
		raw, ok := fields[name]
		if !ok {
			if existing == nil {
				verr.Add(name, "this field is required")
			}
			return nil
		}
		id, isNull := decodeRelatedID(raw, name, verr)
		if isNull {
			verr.Add(name, "this field may not be null")
			return nil
		}
		if id == nil {
			return nil
		}
		if _, err := refs.Interface(*id); err != nil {
			if errors.Is(err, ErrReferenceNotFound) {
				verr.Add(name, "related object not found: interface %d", *id)
				return nil
			}
			return errors.Wrapf(err, "resolve interface %d", *id)
		}
		*dst = *id
		return nil
	}
	if err := decodeInterface("interface_a", &link.InterfaceAID); err != nil {
		return nil, err
	}
	if err := decodeInterface("interface_b", &link.InterfaceBID); err != nil {
		return nil, err
	}

	if link.InterfaceAID != 0 && link.InterfaceAID == link.InterfaceBID {
		verr.Add("interface_b", "must be distinct from interface_a")
	}

	decodeString(fields, "ssid", maxSSIDLen, &link.SSID, verr)
	decodeString(fields, "description", maxDescriptionLen, &link.Description, verr)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &link, nil
}
