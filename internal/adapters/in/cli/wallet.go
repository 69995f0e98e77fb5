// internal/adapters/in/cli/wallet.go
package cli

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/spf13/cobra"

	solanainfra "narratives-nft/internal/infra/solana"
)

const defaultWalletFile = "narratives-mint-authority.json"

// NewGenerateWalletCmd は Solana CLI 互換の keypair ファイルを作ります。
func NewGenerateWalletCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := newCommand("generate-wallet", "Generate a Solana CLI compatible keypair file")
	cmd.Flags().StringVar(&out, "out", defaultWalletFile, "output keypair path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		acc := types.NewAccount()
		if err := solanainfra.WriteKeypairFile(out, acc, force); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Public Key:\n  %s\n\n", acc.PublicKey.ToBase58())
		fmt.Fprintf(w, "Secret key file (Solana-compatible JSON):\n  %s\n\n", out)
		fmt.Fprintln(w, "IMPORTANT:")
		fmt.Fprintln(w, "  - この JSON ファイルは Git に絶対にコミットしないでください。")
		fmt.Fprintln(w, "  - 共有する場合は GCP Secret Manager に登録し、--wallet-secret で読み込んでください。")
		return nil
	}
	return cmd
}
