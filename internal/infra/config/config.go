// internal/infra/config/config.go
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config はスクリプト共通の環境変数設定を保持します。
type Config struct {
	// Solana
	Network     string // devnet / testnet / mainnet-beta / localnet
	RPCURL      string // 空なら Network から解決
	KeypairPath string // 空なら ~/.config/solana/id.json
	// 例) projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest
	// 設定されていれば KeypairPath より優先
	WalletSecret string

	// GCP
	GCPProjectID             string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	MetadataBucket           string

	// Arweave / Irys 用設定
	// 環境変数が未設定なら空文字のまま → Arweave 連携はスキップされる
	ArweaveBaseURL string
	ArweaveAPIKey  string

	// Ledger: "" / firestore / postgres
	LedgerBackend string
	DatabaseURL   string

	LogLevel string
	LogFile  string
}

// Load はカレントディレクトリの .env（あれば）を読んでから環境変数を読み込みます。
// 既に設定済みの環境変数は .env で上書きされません。
func Load() *Config {
	_ = godotenv.Load()

	defaultProject := getenvDefault("GCP_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT"))

	return &Config{
		Network:      getenvDefault("SOLANA_NETWORK", "devnet"),
		RPCURL:       os.Getenv("SOLANA_RPC_URL"),
		KeypairPath:  os.Getenv("SOLANA_KEYPAIR_PATH"),
		WalletSecret: os.Getenv("SOLANA_WALLET_SECRET"),

		GCPProjectID:             defaultProject,
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		MetadataBucket:           os.Getenv("METADATA_BUCKET"),

		ArweaveBaseURL: os.Getenv("ARWEAVE_BASE_URL"),
		ArweaveAPIKey:  os.Getenv("ARWEAVE_API_KEY"),

		LedgerBackend: strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_BACKEND"))),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		LogLevel: getenvDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

// CredentialsFile は GCP クライアントに渡す credentials ファイルを返します。
// FIRESTORE_CREDENTIALS_FILE → GOOGLE_APPLICATION_CREDENTIALS の順。
func (c *Config) CredentialsFile() string {
	if v := strings.TrimSpace(c.FirestoreCredentialsFile); v != "" {
		return v
	}
	return strings.TrimSpace(c.GCPCreds)
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
