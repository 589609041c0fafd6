package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/backkem/teleclient/pkg/discovery"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ServiceView is the structured form of a discovered service.
type ServiceView struct {
	Instance  string            `json:"instance" yaml:"instance"`
	Host      string            `json:"host" yaml:"host"`
	Port      int               `json:"port" yaml:"port"`
	Addresses []string          `json:"addresses" yaml:"addresses"`
	Text      map[string]string `json:"txt,omitempty" yaml:"txt,omitempty"`
}

// NewServiceViews converts services, sorted by instance name.
func NewServiceViews(services []discovery.ResolvedService) []ServiceView {
	views := make([]ServiceView, 0, len(services))
	for _, svc := range services {
		v := ServiceView{
			Instance:  svc.InstanceName,
			Host:      svc.HostName,
			Port:      svc.Port,
			Addresses: []string{},
			Text:      svc.Text,
		}
		for _, ip := range svc.IPs {
			v.Addresses = append(v.Addresses, ip.String())
		}
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Instance < views[j].Instance
	})
	return views
}

// WriteServices renders discovered services to w. The raw format prints
// one "instance host:port" line per service.
func WriteServices(w io.Writer, f Format, services []discovery.ResolvedService) error {
	views := NewServiceViews(services)

	switch f {
	case FormatRaw:
		for _, v := range views {
			if _, err := fmt.Fprintf(w, "%s %s:%d\n", v.Instance, strings.TrimSuffix(v.Host, "."), v.Port); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		data := pterm.TableData{{"Instance", "Host", "Port", "Addresses"}}
		for _, v := range views {
			data = append(data, []string{v.Instance, v.Host, strconv.Itoa(v.Port), strings.Join(v.Addresses, ", ")})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, table)
		return err
	case FormatJSON:
		b, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case FormatYAML:
		b, err := yaml.Marshal(views)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("%w %d", ErrUnknownFormat, int(f))
}
