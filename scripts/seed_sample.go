package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"freeswitch-admin-console/internal/client"
	"freeswitch-admin-console/internal/config"
	"freeswitch-admin-console/internal/freeswitch"
	"freeswitch-admin-console/internal/notify"
	"freeswitch-admin-console/internal/session"
	"freeswitch-admin-console/internal/storage"
	"freeswitch-admin-console/internal/tenant"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DomainData is a domain with the records created under it
type DomainData struct {
	freeswitch.DomainCreate `yaml:",inline"`
	Extensions              []freeswitch.ExtensionCreate `yaml:"extensions,omitempty"`
	Voicemails              []freeswitch.VoicemailCreate `yaml:"voicemails,omitempty"`
}

type DomainsFile struct {
	Domains []DomainData `yaml:"domains"`
}

func main() {
	log.Println("Loading sample PBX data from YAML files...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	username, password := os.Getenv("SEED_USERNAME"), os.Getenv("SEED_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("SEED_USERNAME and SEED_PASSWORD must be set")
	}

	dataDir := "scripts/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	// Session state lives only for this run
	store := storage.NewMemoryStore()
	c, err := client.NewFromConfig(cfg, store, notify.NewLogNotifier(nil))
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}

	ctx := context.Background()
	auth := session.NewHolder(c, store)
	if err := auth.Login(ctx, session.Credentials{Username: username, Password: password}); err != nil {
		log.Fatalf("Failed to sign in as %s: %s", username, auth.Snapshot().Error)
	}
	defer func() { _ = auth.Logout(ctx) }()

	if raw := os.Getenv("SEED_TENANT_ID"); raw != "" {
		if err := selectTenant(ctx, tenant.NewHolder(c, store), raw); err != nil {
			log.Fatalf("Failed to select tenant %s: %v", raw, err)
		}
	}

	if err := loadDataFromYAMLFiles(ctx, freeswitch.New(c), dataDir); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Sample data loaded successfully")
}

func selectTenant(ctx context.Context, holder *tenant.Holder, raw string) error {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}
	if err := holder.FetchTenants(ctx); err != nil {
		return err
	}
	return holder.SelectByID(ctx, id)
}

func loadDataFromYAMLFiles(ctx context.Context, api *freeswitch.API, dataDir string) error {
	domains, err := loadDomains(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load domains: %w", err)
	}

	existing, err := api.Domains.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}
	domainMap := make(map[string]string, len(existing))
	for _, d := range existing {
		domainMap[d.DomainName] = d.DomainUUID
	}

	domainCreated := 0
	for _, domainData := range domains {
		if _, ok := domainMap[domainData.DomainName]; ok {
			continue
		}
		d, err := api.Domains.Create(ctx, domainData.DomainCreate)
		if err != nil {
			return fmt.Errorf("failed to create domain %s: %w", domainData.DomainName, err)
		}
		domainMap[d.DomainName] = d.DomainUUID
		domainCreated++
	}
	log.Printf("Domains: %d created, %d total", domainCreated, len(domains))

	extensionCreated, extensionTotal, err := createExtensions(ctx, api, domains, domainMap)
	if err != nil {
		return err
	}
	log.Printf("Extensions: %d created, %d total", extensionCreated, extensionTotal)

	voicemailCreated, voicemailTotal, err := createVoicemails(ctx, api, domains, domainMap)
	if err != nil {
		return err
	}
	log.Printf("Voicemail boxes: %d created, %d total", voicemailCreated, voicemailTotal)
	return nil
}

func loadDomains(dataDir string) ([]DomainData, error) {
	var allDomains []DomainData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			var file DomainsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			allDomains = append(allDomains, file.Domains...)
		}
		return nil
	})

	return allDomains, err
}

// createExtensions skips extensions whose number already exists in the domain
func createExtensions(ctx context.Context, api *freeswitch.API, domains []DomainData, domainMap map[string]string) (int, int, error) {
	existing, err := api.Extensions.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list extensions: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.DomainUUID+"/"+e.Extension] = true
	}

	created, total := 0, 0
	for _, domainData := range domains {
		domainUUID := domainMap[domainData.DomainName]
		for _, ext := range domainData.Extensions {
			total++
			if seen[domainUUID+"/"+ext.Extension] {
				continue
			}
			ext.DomainUUID = domainUUID
			if _, err := api.Extensions.Create(ctx, ext.Prune()); err != nil {
				log.Printf("Warning: failed to create extension %s@%s: %v", ext.Extension, domainData.DomainName, err)
				continue
			}
			created++
		}
	}
	return created, total, nil
}

// createVoicemails skips mailboxes whose id already exists in the domain
func createVoicemails(ctx context.Context, api *freeswitch.API, domains []DomainData, domainMap map[string]string) (int, int, error) {
	existing, err := api.Voicemails.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list voicemail boxes: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v.DomainUUID+"/"+v.VoicemailID] = true
	}

	created, total := 0, 0
	for _, domainData := range domains {
		domainUUID := domainMap[domainData.DomainName]
		for _, vm := range domainData.Voicemails {
			total++
			if seen[domainUUID+"/"+vm.VoicemailID] {
				continue
			}
			vm.DomainUUID = domainUUID
			if _, err := api.Voicemails.Create(ctx, vm); err != nil {
				log.Printf("Warning: failed to create voicemail box %s@%s: %v", vm.VoicemailID, domainData.DomainName, err)
				continue
			}
			created++
		}
	}
	return created, total, nil
}
