// internal/adapters/in/cli/create.go
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mintapp "narratives-nft/internal/application/mint"
	assetdom "narratives-nft/internal/domain/asset"
)

type createFlags struct {
	commonFlags
	name         string
	symbol       string
	uri          string
	sellerFeeBps uint16
	metadataFile string
	owner        string
	collection   string
}

func (f *createFlags) bind(cmd *cobra.Command, withCollection bool) {
	f.commonFlags.bind(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", DefaultName, "on-chain name (max 32 bytes)")
	fs.StringVar(&f.symbol, "symbol", DefaultSymbol, "on-chain symbol (max 10 bytes)")
	fs.StringVar(&f.uri, "uri", DefaultURI, "metadata JSON URI")
	fs.Uint16Var(&f.sellerFeeBps, "seller-fee-bps", 0, "royalty in basis points (500 = 5%)")
	fs.StringVar(&f.metadataFile, "metadata-file", "", "local metadata JSON to upload (Arweave or GCS) instead of --uri")
	fs.StringVar(&f.owner, "owner", "", "wallet receiving the token (default: the signing wallet)")
	if withCollection {
		fs.StringVar(&f.collection, "collection", DefaultCollectionMint, "collection mint the NFT belongs to (unverified until verify-nft)")
	}
}

func (f *createFlags) request() (mintapp.CreateRequest, error) {
	req := mintapp.CreateRequest{
		Input: assetdom.CreateInput{
			Name:                 f.name,
			Symbol:               f.symbol,
			URI:                  f.uri,
			SellerFeeBasisPoints: f.sellerFeeBps,
			CollectionMint:       f.collection,
			Owner:                f.owner,
		},
	}
	if p := strings.TrimSpace(f.metadataFile); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return mintapp.CreateRequest{}, fmt.Errorf("read metadata file: %w", err)
		}
		req.MetadataJSON = b
	}
	return req, nil
}

// NewCreateCollectionCmd は create-collection コマンドです。
func NewCreateCollectionCmd() *cobra.Command {
	flags := &createFlags{}
	cmd := newCommand("create-collection", "Mint a collection NFT on Solana")
	flags.bind(cmd, false)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		req, err := flags.request()
		if err != nil {
			return err
		}
		return withSession(cmd, &flags.commonFlags, "creating collection", func(ctx context.Context, s *session) error {
			res, err := s.svc.CreateCollection(ctx, req)
			if err != nil {
				return err
			}
			return printCreated(cmd, "Collection", res)
		})
	}
	return cmd
}

// NewCreateNFTCmd は create-nft コマンドです。
func NewCreateNFTCmd() *cobra.Command {
	flags := &createFlags{}
	cmd := newCommand("create-nft", "Mint an NFT that references a collection")
	flags.bind(cmd, true)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		req, err := flags.request()
		if err != nil {
			return err
		}
		return withSession(cmd, &flags.commonFlags, "creating NFT", func(ctx context.Context, s *session) error {
			res, err := s.svc.CreateNFT(ctx, req)
			if err != nil {
				return err
			}
			return printCreated(cmd, "NFT", res)
		})
	}
	return cmd
}

func printCreated(cmd *cobra.Command, label string, res mintapp.Result) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transaction confirmed: %s\n", res.Signature)
	fmt.Fprintf(out, "%s created: %s\n", label, res.ExplorerURL)
	if res.Asset != nil {
		return printJSON(out, label+" details:", res.Asset)
	}
	return nil
}
