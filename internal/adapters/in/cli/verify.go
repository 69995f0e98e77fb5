// internal/adapters/in/cli/verify.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyNFTCmd は verify-nft コマンドです。
func NewVerifyNFTCmd() *cobra.Command {
	var (
		flags      commonFlags
		nft        string
		collection string
	)
	cmd := newCommand("verify-nft", "Verify an NFT as a member of a collection")
	flags.bind(cmd)
	cmd.Flags().StringVar(&nft, "nft", DefaultNFTMint, "NFT mint to verify")
	cmd.Flags().StringVar(&collection, "collection", DefaultCollectionMint, "collection mint (the wallet must be its update authority)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, &flags, "verifying NFT", func(ctx context.Context, s *session) error {
			res, err := s.svc.VerifyNFT(ctx, nft, collection)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"NFT %s verified as member of collection %s! See explorer at: %s\n",
				nft, collection, res.ExplorerURL,
			)
			return nil
		})
	}
	return cmd
}
