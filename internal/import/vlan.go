package imports

import (
	"fmt"
	"strconv"
	"strings"
)

// VlanTagMax is the highest usable 802.1Q tag.
const VlanTagMax = 4094

func tryVlan(ctx *recognizeCtx) (LinkConfig, bool, error) {
	parent := ctx.sc.Value("ETHERDEVICE")
	if parent == "" {
		return nil, false, nil
	}
	if parent == ctx.name {
		return nil, false, fmt.Errorf("%w: ETHERDEVICE=%q", ErrVlanSelfReference, parent)
	}

	text, explicit := ctx.sc.Lookup("VLAN_ID", "")
	if !explicit {
		text = vlanTagFromName(ctx.name)
	}
	tag, err := parseVlanTag(text)
	if err != nil {
		if explicit {
			return nil, false, fmt.Errorf("VLAN_ID=%q: %w", text, err)
		}
		return nil, false, fmt.Errorf("cannot infer tag from interface name: %w", err)
	}
	return VlanLink{Parent: parent, Tag: tag}, true, nil
}

// vlanTagFromName returns the text after the last "." of name, or its
// trailing run of digits when there is no dot.
func vlanTagFromName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	i := len(name)
	for i > 0 && isDigit(name[i-1]) {
		i--
	}
	return name[i:]
}

func parseVlanTag(text string) (uint16, error) {
	if text == "" || !isDigit(text[0]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVlanTag, text)
	}
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVlanTag, text)
	}
	if n > VlanTagMax {
		return 0, fmt.Errorf("%w: %d is out of range", ErrInvalidVlanTag, n)
	}
	return uint16(n), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
