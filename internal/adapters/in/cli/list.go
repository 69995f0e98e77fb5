package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewListNFTsCmd は list-nfts コマンドです。
func NewListNFTsCmd() *cobra.Command {
	var (
		flags commonFlags
		owner string
	)
	cmd := newCommand("list-nfts", "List token mints held by a wallet")
	flags.bind(cmd)
	cmd.Flags().StringVar(&owner, "owner", "", "wallet to inspect (default: the loaded wallet)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, &flags, "listing NFTs", func(ctx context.Context, s *session) error {
			mints, err := s.svc.ListNFTs(ctx, owner)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(mints) == 0 {
				fmt.Fprintln(out, "no tokens found")
				return nil
			}
			for _, m := range mints {
				fmt.Fprintln(out, m)
			}
			return nil
		})
	}
	return cmd
}
