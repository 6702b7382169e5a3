package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"fvm/internal/services"
	"fvm/internal/share"

	json "github.com/goccy/go-json"
)

func runExport(svc services.FamilyServiceInterface, out string, stdout io.Writer) error {
	if out == "-" {
		return svc.Export(stdout)
	}
	if out == "" {
		out = svc.ExportFileName()
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := svc.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported to %s\n", out)
	return nil
}

func runImport(svc services.FamilyServiceInterface, path string, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := svc.Import(f); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "imported %s\n", path)
	return nil
}

func runShare(svc services.FamilyServiceInterface, stdout io.Writer) error {
	link, err := svc.ShareLink()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, link.URL)
	fmt.Fprintf(stdout, "qr: %s\n", link.QR)
	return nil
}

// shareValues accepts a full link, a bare query string or the payload alone.
func shareValues(arg string) url.Values {
	arg = strings.TrimSpace(arg)
	if i := strings.IndexByte(arg, '?'); i >= 0 {
		if values, err := url.ParseQuery(arg[i+1:]); err == nil {
			return values
		}
	}
	if strings.Contains(arg, "=") {
		if values, err := url.ParseQuery(arg); err == nil && (values.Has(share.QueryParam) || values.Has(share.LegacyQueryParam)) {
			return values
		}
	}
	return url.Values{share.QueryParam: {arg}}
}

func runDecode(svc services.FamilyServiceInterface, arg string, apply bool, stdout io.Writer) error {
	values := shareValues(arg)
	data, err := svc.SharedPreview(values)
	if err != nil {
		return err
	}

	gson, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(gson))

	if !apply {
		return nil
	}
	if err := svc.ApplyShared(values); err != nil {
		return err
	}
	return svc.Flush()
}

func runStorage(svc services.FamilyServiceInterface, stdout io.Writer) error {
	info := svc.StorageInfo()
	if !info.Supported {
		fmt.Fprintln(stdout, "storage unavailable")
		return nil
	}
	fmt.Fprintf(stdout, "used %d of %d bytes (%.2f%%), %d available\n", info.Used, info.Used+info.Available, info.Percentage, info.Available)
	return nil
}
