package handlers

import (
	"html/template"
	"net/http"
)

const apiDocsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Pool League API Documentation</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #134e4a 0%, #0f172a 100%);
            min-height: 100vh;
            padding: 20px;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 12px;
            box-shadow: 0 20px 60px rgba(0, 0, 0, 0.3);
            overflow: hidden;
        }

        header {
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
            color: white;
            padding: 40px;
            text-align: center;
        }

        h1 {
            font-size: 42px;
            margin-bottom: 10px;
        }

        .version {
            display: inline-block;
            padding: 6px 16px;
            background: rgba(100, 200, 150, 0.3);
            border-radius: 20px;
            font-size: 14px;
            margin-bottom: 10px;
        }

        .subtitle {
            color: rgba(255, 255, 255, 0.8);
            font-size: 18px;
        }

        nav {
            background: #f8f9fa;
            padding: 20px 40px;
            border-bottom: 2px solid #e9ecef;
        }

        nav h2 {
            margin-bottom: 15px;
            color: #495057;
            font-size: 18px;
        }

        nav ul {
            list-style: none;
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 10px;
        }

        nav a {
            color: #0d9488;
            text-decoration: none;
            padding: 8px 12px;
            border-radius: 6px;
            display: block;
            transition: all 0.2s;
        }

        nav a:hover {
            background: #0d9488;
            color: white;
        }

        main {
            padding: 40px;
        }

        section {
            margin-bottom: 60px;
        }

        h2 {
            color: #1a1a2e;
            font-size: 32px;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 3px solid #0d9488;
        }

        h3 {
            color: #495057;
            font-size: 24px;
            margin: 30px 0 15px;
        }

        .endpoint {
            background: #f8f9fa;
            border-left: 4px solid #0d9488;
            padding: 20px;
            margin: 20px 0;
            border-radius: 6px;
        }

        .method {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 4px;
            font-weight: bold;
            font-size: 14px;
            margin-right: 10px;
        }

        .method.get { background: #28a745; color: white; }
        .method.post { background: #007bff; color: white; }
        .method.put { background: #ffc107; color: black; }
        .method.delete { background: #dc3545; color: white; }

        .path {
            font-family: 'Courier New', monospace;
            font-size: 16px;
            color: #495057;
        }

        .description {
            margin: 15px 0;
            color: #666;
        }

        .auth-required {
            display: inline-block;
            padding: 4px 12px;
            background: #ff6b6b;
            color: white;
            border-radius: 4px;
            font-size: 12px;
            margin-top: 10px;
        }

        pre {
            background: #2d2d2d;
            color: #f8f8f2;
            padding: 20px;
            border-radius: 6px;
            overflow-x: auto;
            margin: 15px 0;
            font-size: 14px;
        }

        code {
            font-family: 'Courier New', monospace;
        }

        .param-table {
            width: 100%;
            border-collapse: collapse;
            margin: 15px 0;
        }

        .param-table th,
        .param-table td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid #dee2e6;
        }

        .param-table th {
            background: #e9ecef;
            font-weight: 600;
        }

        .param-table tr:hover {
            background: #f8f9fa;
        }

        footer {
            background: #1a1a2e;
            color: rgba(255, 255, 255, 0.8);
            padding: 30px 40px;
            text-align: center;
        }

        footer a {
            color: #0d9488;
            text-decoration: none;
        }

        footer a:hover {
            text-decoration: underline;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>&#127921; Pool League API</h1>
            <div class="version">Version 1.0.0</div>
            <p class="subtitle">Live scoring and standings for 8-ball and 9-ball league play</p>
        </header>

        <nav>
            <h2>Quick Navigation</h2>
            <ul>
                <li><a href="#overview">Overview</a></li>
                <li><a href="#matches">Matches</a></li>
                <li><a href="#scoring">Live Scoring</a></li>
                <li><a href="#league">Players &amp; Teams</a></li>
                <li><a href="#websocket">WebSocket</a></li>
                <li><a href="#models">Data Models</a></li>
            </ul>
        </nav>

        <main>
            <section id="overview">
                <h2>Overview</h2>
                <p>The Pool League API supports:</p>
                <ul>
                    <li>Live match scoring for 8-ball and 9-ball</li>
                    <li>Handicapped races derived from player ratings</li>
                    <li>Elo rating updates applied at match finalization</li>
                    <li>Player, team, and tournament standings</li>
                    <li>Real-time scoreboard updates over WebSocket</li>
                </ul>

                <h3>Base URL</h3>
                <pre>http://localhost:9029/api</pre>

                <h3>Game Types</h3>
                <table class="param-table">
                    <tr>
                        <th>Value</th>
                        <th>Description</th>
                    </tr>
                    <tr>
                        <td>eight-ball</td>
                        <td>Games are logged whole; the winner earns 14, the loser 0&ndash;7</td>
                    </tr>
                    <tr>
                        <td>nine-ball</td>
                        <td>Scored ball by ball; the 9 ends the game</td>
                    </tr>
                </table>
            </section>

            <section id="matches">
                <h2>Matches</h2>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/matches</span>
                    <p class="description">Start a live match. Point targets are fixed from the handicap chart using the players' current ratings.</p>
                    <pre>{
  "player1Id": "507f1f77bcf86cd799439011",
  "player2Id": "507f1f77bcf86cd799439012",
  "gameType": "eight-ball",
  "tournamentId": "507f1f77bcf86cd799439020",
  "table": "Table 3"
}</pre>
                </div>

                <div class="endpoint">
                    <span class="method get">GET</span>
                    <span class="path">/matches?gameType=eight-ball&amp;status=completed</span>
                    <p class="description">List matches, most recently updated first</p>
                </div>

                <div class="endpoint">
                    <span class="method get">GET</span>
                    <span class="path">/matches/{id}</span>
                    <p class="description">Get one match with derived live state (hill-hill flag, provisional winner)</p>
                </div>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/matches/{id}/finalize</span>
                    <p class="description">Complete the match: freeze the score, apply Elo changes, update player and team stats. Fails with 409 if no player has reached their target.</p>
                </div>

                <div class="endpoint">
                    <span class="method delete">DELETE</span>
                    <span class="path">/matches/{id}</span>
                    <p class="description">Discard an in-progress match without touching any stats. Completed matches cannot be discarded.</p>
                </div>
            </section>

            <section id="scoring">
                <h2>Live Scoring</h2>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/matches/{id}/games</span>
                    <p class="description">Log a finished 8-ball game. loserScore is the balls the loser had pocketed, 0&ndash;7.</p>
                    <pre>{
  "winnerId": "507f1f77bcf86cd799439011",
  "loserScore": 5
}</pre>
                </div>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/matches/{id}/balls/pocket</span>
                    <p class="description">Assign a ball in the current 9-ball rack. Pocketing the 9 scores the game and starts a fresh rack.</p>
                    <pre>{
  "playerId": "507f1f77bcf86cd799439011",
  "ball": 5
}</pre>
                </div>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/matches/{id}/balls/dead</span>
                    <p class="description">Mark a ball dead: off the table, no credit to anyone. The 9 can never be marked dead.</p>
                    <pre>{
  "ball": 4
}</pre>
                </div>
            </section>

            <section id="league">
                <h2>Players &amp; Teams</h2>

                <div class="endpoint">
                    <span class="method get">GET</span>
                    <span class="path">/players</span>
                    <p class="description">List players, optionally filtered by teamId</p>
                </div>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/players</span>
                    <p class="description">Register a new player at the default rating (500)</p>
                </div>

                <div class="endpoint">
                    <span class="method put">PUT</span>
                    <span class="path">/players/{id}/team</span>
                    <span class="auth-required">&#128274; Admin</span>
                    <p class="description">Move a player to another team (or make them a free agent with an empty teamId). Their career contribution moves with them.</p>
                    <pre>{
  "teamId": "507f1f77bcf86cd799439030"
}</pre>
                </div>

                <div class="endpoint">
                    <span class="method get">GET</span>
                    <span class="path">/teams/{id}</span>
                    <p class="description">Get a team with its current roster</p>
                </div>

                <div class="endpoint">
                    <span class="method get">GET</span>
                    <span class="path">/rankings?type=players|teams</span>
                    <p class="description">League standings: players by rating, teams by wins then points</p>
                </div>

                <div class="endpoint">
                    <span class="method post">POST</span>
                    <span class="path">/auth/login</span>
                    <p class="description">Admin login; returns a bearer token for the admin-only endpoints</p>
                    <pre>{
  "password": "..."
}</pre>
                </div>
            </section>

            <section id="websocket">
                <h2>WebSocket</h2>
                <p>Live scoreboard updates are delivered via WebSocket connections.</p>

                <h3>Connection</h3>
                <pre>ws://localhost:9029/ws/matches/{matchId}?viewerId=scoreboard-1</pre>

                <h3>Message Types</h3>
                <table class="param-table">
                    <tr>
                        <th>Event</th>
                        <th>Description</th>
                    </tr>
                    <tr>
                        <td>match_update</td>
                        <td>The match state changed: a ball was pocketed, a game was logged, or the match was finalized</td>
                    </tr>
                </table>
            </section>

            <section id="models">
                <h2>Data Models</h2>

                <h3>Match</h3>
                <pre>{
  "id": "507f1f77bcf86cd799439040",
  "player1Id": "507f1f77bcf86cd799439011",
  "player2Id": "507f1f77bcf86cd799439012",
  "player1": "Alice Chen",
  "player2": "Marcus Webb",
  "gameType": "nine-ball",
  "pointsToWin1": 38,
  "pointsToWin2": 31,
  "points1": 14,
  "points2": 8,
  "games": [
    { "gameNumber": 1, "winnerId": "507f1f77bcf86cd799439011", "points": 8 }
  ],
  "rack": { "pocketedBy1": [2, 5], "pocketedBy2": [1], "dead": [4] },
  "status": "in_progress",
  "createdAt": "2026-08-29T19:00:00Z",
  "updatedAt": "2026-08-29T19:12:00Z"
}</pre>

                <h3>Player</h3>
                <pre>{
  "id": "507f1f77bcf86cd799439011",
  "name": "Alice Chen",
  "teamId": "507f1f77bcf86cd799439030",
  "status": "active",
  "rating": 512,
  "previousRating": 500,
  "matches8Ball": 4,
  "wins8Ball": 3,
  "points8Ball": 182,
  "matches9Ball": 2,
  "wins9Ball": 1,
  "points9Ball": 61,
  "createdAt": "2026-08-01T10:00:00Z",
  "updatedAt": "2026-08-29T19:20:00Z"
}</pre>
            </section>
        </main>

        <footer>
            <p>Pool League Version 1.0.0</p>
        </footer>
    </div>
</body>
</html>`

func ServeAPIDocs(w http.ResponseWriter, r *http.Request) {
	tmpl := template.Must(template.New("docs").Parse(apiDocsHTML))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	tmpl.Execute(w, nil)
}
